package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"google.golang.org/genai"

	"github.com/robalobadob/colordle/apps/go-server/internal/color"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

var responseSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name": {Type: genai.TypeString},
			"r":    {Type: genai.TypeInteger},
			"g":    {Type: genai.TypeInteger},
			"b":    {Type: genai.TypeInteger},
		},
		Required: []string{"name", "r", "g", "b"},
	},
}

type generateFunc func(ctx context.Context, prompt string) (string, error)

// Gemini asks a Gemini model for colours as structured JSON.
type Gemini struct {
	generate generateFunc
	timeout  time.Duration
}

// NewGemini creates a Gemini API client. The call is bounded by timeout
// when it is positive.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is required for suggestions")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}
	generate := func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return &Gemini{generate: generate, timeout: timeout}, nil
}

func (g *Gemini) Suggest(ctx context.Context, count int) []Suggestion {
	if count <= 0 {
		count = DefaultCount
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	start := time.Now()
	text, err := g.generate(ctx, prompt(count))
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("color suggestion request failed")
		return []Suggestion{}
	}
	out, err := parseSuggestions(text)
	if err != nil {
		log.Warn().Err(err).Msg("unreadable color suggestions")
		return []Suggestion{}
	}
	if len(out) > count {
		out = out[:count]
	}
	return out
}

func prompt(count int) string {
	return fmt.Sprintf("Suggest %d vibrant and pleasing colors with their RGB values.", count)
}

type wireSuggestion struct {
	Name string `json:"name"`
	R    int    `json:"r"`
	G    int    `json:"g"`
	B    int    `json:"b"`
}

// minDistance is the CIEDE2000 distance below which two suggestions
// count as the same colour.
const minDistance = 0.02

// parseSuggestions decodes the model's JSON array, clamping channels
// and dropping unnamed items and near-duplicates.
func parseSuggestions(text string) ([]Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Suggestion{}, nil
	}
	var items []wireSuggestion
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, err
	}
	named := lo.FilterMap(items, func(it wireSuggestion, _ int) (Suggestion, bool) {
		name := strings.TrimSpace(it.Name)
		return Suggestion{Name: name, Color: color.New(it.R, it.G, it.B)}, name != ""
	})
	out := make([]Suggestion, 0, len(named))
	for _, s := range named {
		if !lo.ContainsBy(out, func(o Suggestion) bool { return color.Distance(o.Color, s.Color) < minDistance }) {
			out = append(out, s)
		}
	}
	return out, nil
}

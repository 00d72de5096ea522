// internal/color/color.go
//
// Colour model for the game.
// Defines:
//   - RGB: an immutable three-channel colour, every channel in [0,255].
//   - Channel: the channel names used on the wire ("r", "g", "b").
//   - Rand: the injectable random source used for colour synthesis.
//
// Construction and JSON decoding clamp out-of-range values, so no RGB
// value ever holds a channel outside [0,255].

package color

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Channel bounds.
const (
	MinValue = 0
	MaxValue = 255
)

// Channel identifies one component of an RGB colour.
type Channel string

const (
	Red   Channel = "r"
	Green Channel = "g"
	Blue  Channel = "b"
)

// Channels lists the channels in display order.
var Channels = []Channel{Red, Green, Blue}

// ErrInvalidChannel is returned when a channel name is not r, g or b.
var ErrInvalidChannel = errors.New("invalid channel")

// ParseChannel accepts "r"/"g"/"b" and the long names, case-insensitively.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "red":
		return Red, nil
	case "g", "green":
		return Green, nil
	case "b", "blue":
		return Blue, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChannel, s)
}

// RGB is a colour value. Fields are unexported to keep values clamped;
// use New or the JSON codec to build one.
type RGB struct {
	r, g, b int
}

// New builds an RGB, clamping each channel into [0,255].
func New(r, g, b int) RGB {
	return RGB{r: Clamp(r), g: Clamp(g), b: Clamp(b)}
}

// Clamp bounds v to [0,255].
func Clamp(v int) int {
	return min(max(v, MinValue), MaxValue)
}

func (c RGB) R() int { return c.r }
func (c RGB) G() int { return c.g }
func (c RGB) B() int { return c.b }

// Get returns the value of one channel.
func (c RGB) Get(ch Channel) int {
	switch ch {
	case Red:
		return c.r
	case Green:
		return c.g
	case Blue:
		return c.b
	}
	return 0
}

// With returns a copy of c with one channel replaced (clamped).
func (c RGB) With(ch Channel, v int) (RGB, error) {
	switch ch {
	case Red:
		c.r = Clamp(v)
	case Green:
		c.g = Clamp(v)
	case Blue:
		c.b = Clamp(v)
	default:
		return c, fmt.Errorf("%w: %q", ErrInvalidChannel, ch)
	}
	return c, nil
}

// Diff returns the absolute difference between a and b on one channel.
func Diff(a, b RGB, ch Channel) int {
	d := a.Get(ch) - b.Get(ch)
	if d < 0 {
		return -d
	}
	return d
}

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

// ParseHex accepts #rrggbb or #rgb.
func ParseHex(s string) (RGB, error) {
	cf, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse hex %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return New(int(r), int(g), int(b)), nil
}

// Distance is the CIEDE2000 perceptual distance between two colours.
// Roughly 0 for identical colours and ~1 for opposites.
func Distance(a, b RGB) float64 {
	return a.colorful().DistanceCIEDE2000(b.colorful())
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.r) / 255.0,
		G: float64(c.g) / 255.0,
		B: float64(c.b) / 255.0,
	}
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.r, c.g, c.b)
}

// wireRGB is the JSON shape {r,g,b}.
type wireRGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRGB{R: c.r, G: c.g, B: c.b})
}

// UnmarshalJSON clamps decoded channels so stored or submitted values
// can never produce an out-of-range colour.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var w wireRGB
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = New(w.R, w.G, w.B)
	return nil
}

// Rand is the subset of math/rand/v2 the package needs.
// *rand.Rand satisfies it; tests pass fixed sequences.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand uses the goroutine-safe top-level math/rand/v2 source.
var DefaultRand Rand = globalRand{}

// Random returns a uniformly random colour.
func Random(rng Rand) RGB {
	if rng == nil {
		rng = DefaultRand
	}
	return New(rng.IntN(256), rng.IntN(256), rng.IntN(256))
}

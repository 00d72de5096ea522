// internal/suggest/suggest.go
//
// Colour suggestions for the admin catalog editor.
// A Source never fails: errors are logged and produce an empty list, so
// the admin flow carries on without suggestions.

package suggest

import (
	"context"
	"sync"

	"github.com/robalobadob/colordle/apps/go-server/internal/color"
)

// DefaultCount is the number of suggestions requested when none is given.
const DefaultCount = 5

// Suggestion is a named candidate colour.
type Suggestion struct {
	Name  string    `json:"name"`
	Color color.RGB `json:"color"`
}

// Source proposes up to count colours.
type Source interface {
	Suggest(ctx context.Context, count int) []Suggestion
}

// None is the Source used when no generator is configured.
type None struct{}

func (None) Suggest(context.Context, int) []Suggestion { return []Suggestion{} }

// Latest lets only the most recent call win. Starting a call cancels
// the one in flight, and the cancelled call returns an empty list.
type Latest struct {
	src Source

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewLatest(src Source) *Latest {
	return &Latest{src: src}
}

func (l *Latest) Suggest(ctx context.Context, count int) []Suggestion {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	mine := l.seq
	l.cancel = cancel
	l.mu.Unlock()

	out := l.src.Suggest(ctx, count)

	l.mu.Lock()
	defer l.mu.Unlock()
	if mine != l.seq {
		return []Suggestion{}
	}
	l.cancel = nil
	return out
}

package game

import (
	"github.com/robalobadob/colordle/apps/go-server/internal/color"
)

// GenerateHint picks a channel uniformly at random and returns the range
// [v-hintRange, v+hintRange] around its value, clipped to [0,255].
// Calls are independent; the same channel may come up twice.
func GenerateHint(target color.RGB, hintRange int, rng color.Rand) Hint {
	if rng == nil {
		rng = color.DefaultRand
	}
	ch := color.Channels[rng.IntN(len(color.Channels))]
	v := target.Get(ch)
	return Hint{
		Channel: ch,
		Range:   [2]int{max(color.MinValue, v-hintRange), min(color.MaxValue, v+hintRange)},
	}
}

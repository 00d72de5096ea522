// internal/game/types.go
//
// Core type definitions for the Colordle game engine.
// Defines:
//   - Mark: per-channel verdict of a guess (correct/incorrect).
//   - Evaluation: one Mark per channel.
//   - Guess: a submitted colour paired with its evaluation.
//   - State: PLAYING or WON.
//   - Session: the durable record of one puzzle attempt.
//   - Hint: a bounded range for one channel of the target.
//   - Rules: tolerance, hint range and hint allowance.

package game

import (
	"github.com/robalobadob/colordle/apps/go-server/internal/color"
)

// Mark represents the evaluation result for a single channel.
type Mark string

const (
	MarkCorrect   Mark = "correct"
	MarkIncorrect Mark = "incorrect"
)

// Evaluation holds one verdict per channel.
type Evaluation struct {
	R Mark `json:"r"`
	G Mark `json:"g"`
	B Mark `json:"b"`
}

// Get returns the verdict for one channel.
func (e Evaluation) Get(ch color.Channel) Mark {
	switch ch {
	case color.Red:
		return e.R
	case color.Green:
		return e.G
	case color.Blue:
		return e.B
	}
	return ""
}

// Won reports whether every channel is correct.
func (e Evaluation) Won() bool {
	return e.R == MarkCorrect && e.G == MarkCorrect && e.B == MarkCorrect
}

// Guess is a submitted colour and the evaluation it produced.
type Guess struct {
	Guess      color.RGB  `json:"guess"`
	Evaluation Evaluation `json:"evaluation"`
}

// State is the coarse status of a session. There is no stored lost
// state: giving up only reveals the target.
type State string

const (
	StatePlaying State = "PLAYING"
	StateWon     State = "WON"
)

// Session is one puzzle attempt. Date is the DD/MM/YYYY key for daily
// puzzles and empty for practice games.
type Session struct {
	Date      string  `json:"date"`
	Guesses   []Guess `json:"guesses"`
	HintsUsed int     `json:"hintsUsed"`
	State     State   `json:"state"`
}

// NewSession returns a fresh PLAYING session for date.
func NewSession(date string) Session {
	return Session{Date: date, Guesses: []Guess{}, State: StatePlaying}
}

// Won reports whether the session reached its terminal state.
func (s Session) Won() bool { return s.State == StateWon }

// Valid reports whether a decoded session is internally consistent.
// Persisted records failing this check are treated as missing. The hint
// count is not bounded by the current rules, so lowering the hint budget
// never discards a saved session.
func (s Session) Valid() bool {
	if s.State != StatePlaying && s.State != StateWon {
		return false
	}
	if s.HintsUsed < 0 {
		return false
	}
	if s.State == StateWon && (len(s.Guesses) == 0 || !s.Guesses[len(s.Guesses)-1].Evaluation.Won()) {
		return false
	}
	return true
}

// Hint discloses a range for one channel of the target.
type Hint struct {
	Channel color.Channel `json:"component"`
	Range   [2]int        `json:"range"` // inclusive [min, max]
}

// Package-level defaults.
const (
	DefaultTolerance = 5
	DefaultHintRange = 20
	DefaultMaxHints  = 2
)

// Rules parameterises evaluation and hints.
type Rules struct {
	Tolerance int
	HintRange int
	MaxHints  int
}

// DefaultRules returns the standard game constants.
func DefaultRules() Rules {
	return Rules{Tolerance: DefaultTolerance, HintRange: DefaultHintRange, MaxHints: DefaultMaxHints}
}

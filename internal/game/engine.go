// internal/game/engine.go
//
// Core game engine for a single Colordle puzzle attempt.
// Responsibilities:
//   - Evaluate guesses channel by channel under a fixed tolerance.
//   - Track state transitions: PLAYING → WON (terminal).
//   - Hand out a bounded number of hints.
//
// Notes:
//   - The engine does no I/O. Callers persist Game.Session after every
//     mutating call when the game is a daily puzzle.
//   - A Game without a target rejects guesses and hints with ErrNoTarget.

package game

import (
	"errors"

	"github.com/robalobadob/colordle/apps/go-server/internal/color"
)

var (
	ErrNoTarget       = errors.New("no target color")
	ErrAlreadyWon     = errors.New("puzzle already won")
	ErrHintsExhausted = errors.New("no hints remaining")
)

// Evaluate compares guess to target. A channel is correct when the
// absolute difference is at most tolerance (inclusive).
func Evaluate(guess, target color.RGB, tolerance int) Evaluation {
	mark := func(ch color.Channel) Mark {
		if color.Diff(guess, target, ch) <= tolerance {
			return MarkCorrect
		}
		return MarkIncorrect
	}
	return Evaluation{R: mark(color.Red), G: mark(color.Green), B: mark(color.Blue)}
}

// Game couples a session with the target it is played against.
type Game struct {
	ID      string
	Target  *color.RGB
	Session Session

	rules Rules
	rng   color.Rand
}

// Option configures a Game.
type Option func(*Game)

// WithRules overrides the default rules.
func WithRules(r Rules) Option { return func(g *Game) { g.rules = r } }

// WithRand injects the random source used for hints.
func WithRand(r color.Rand) Option { return func(g *Game) { g.rng = r } }

// WithSession resumes a previously saved session.
func WithSession(s Session) Option { return func(g *Game) { g.Session = s } }

// New constructs a game for target. date is the puzzle key, empty for practice.
func New(id string, target *color.RGB, date string, opts ...Option) *Game {
	g := &Game{
		ID:      id,
		Target:  target,
		Session: NewSession(date),
		rules:   DefaultRules(),
		rng:     color.DefaultRand,
	}
	for _, o := range opts {
		o(g)
	}
	if g.Session.Guesses == nil {
		g.Session.Guesses = []Guess{}
	}
	return g
}

// Rules returns the rules in effect.
func (g *Game) Rules() Rules { return g.rules }

// Daily reports whether the game is tied to a calendar puzzle.
func (g *Game) Daily() bool { return g.Session.Date != "" }

// HintsRemaining is MaxHints minus hints used, never negative.
func (g *Game) HintsRemaining() int {
	return max(g.rules.MaxHints-g.Session.HintsUsed, 0)
}

// ApplyGuess evaluates c against the target and appends it to history.
//
// Validation rules:
//   - A target must be set (ErrNoTarget).
//   - The session must still be PLAYING (ErrAlreadyWon).
//
// On an all-correct evaluation the session moves to WON.
func (g *Game) ApplyGuess(c color.RGB) (Guess, error) {
	if g.Target == nil {
		return Guess{}, ErrNoTarget
	}
	if g.Session.Won() {
		return Guess{}, ErrAlreadyWon
	}
	guess := Guess{Guess: c, Evaluation: Evaluate(c, *g.Target, g.rules.Tolerance)}
	g.Session.Guesses = append(g.Session.Guesses, guess)
	if guess.Evaluation.Won() {
		g.Session.State = StateWon
	}
	return guess, nil
}

// UseHint consumes one hint and returns it. Hints are informational, so
// they remain available after a win until the allowance runs out.
func (g *Game) UseHint() (Hint, error) {
	if g.Session.HintsUsed >= g.rules.MaxHints {
		return Hint{}, ErrHintsExhausted
	}
	if g.Target == nil {
		return Hint{}, ErrNoTarget
	}
	h := GenerateHint(*g.Target, g.rules.HintRange, g.rng)
	g.Session.HintsUsed++
	return h, nil
}

// GiveUp reveals the target. It does not change the session: there is
// no stored lost state, so the player may keep guessing afterwards.
func (g *Game) GiveUp() (color.RGB, error) {
	if g.Target == nil {
		return color.RGB{}, ErrNoTarget
	}
	if g.Session.Won() {
		return color.RGB{}, ErrAlreadyWon
	}
	return *g.Target, nil
}

// Reset clears guesses and hints and returns to PLAYING, keeping the
// target and date.
func (g *Game) Reset() {
	g.Session = NewSession(g.Session.Date)
}

package game

import (
	"errors"
	"testing"

	"github.com/robalobadob/colordle/apps/go-server/internal/color"
)

// fixedRand replays vals in order (mod n).
type fixedRand struct {
	vals []int
	i    int
}

func (f *fixedRand) IntN(n int) int {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v % n
}

func rgb(r, g, b int) color.RGB { return color.New(r, g, b) }

func tol10() Rules { return Rules{Tolerance: 10, HintRange: 20, MaxHints: 2} }

func TestEvaluateTolerance(t *testing.T) {
	target := rgb(100, 100, 100)
	cases := []struct {
		name  string
		guess color.RGB
		want  Evaluation
	}{
		{"equal", rgb(100, 100, 100), Evaluation{MarkCorrect, MarkCorrect, MarkCorrect}},
		{"at bound", rgb(105, 95, 100), Evaluation{MarkCorrect, MarkCorrect, MarkCorrect}},
		{"one past bound", rgb(106, 94, 100), Evaluation{MarkIncorrect, MarkIncorrect, MarkCorrect}},
		{"far", rgb(0, 255, 0), Evaluation{MarkIncorrect, MarkIncorrect, MarkIncorrect}},
	}
	for _, c := range cases {
		got := Evaluate(c.guess, target, DefaultTolerance)
		if got != c.want {
			t.Errorf("%s: Evaluate = %+v, want %+v", c.name, got, c.want)
		}
	}
}

func TestEvaluateChannelsIndependent(t *testing.T) {
	// Exhaustive over one channel: verdict depends only on |g - t| <= tol.
	for _, tol := range []int{0, 5, 10} {
		for gv := 0; gv <= 255; gv += 3 {
			for tv := 0; tv <= 255; tv += 17 {
				e := Evaluate(rgb(gv, 0, 255), rgb(tv, 0, 255), tol)
				d := gv - tv
				if d < 0 {
					d = -d
				}
				if (e.R == MarkCorrect) != (d <= tol) {
					t.Fatalf("tol=%d g=%d t=%d: R=%s", tol, gv, tv, e.R)
				}
				if e.G != MarkCorrect || e.B != MarkCorrect {
					t.Fatalf("untouched channels should be correct: %+v", e)
				}
			}
		}
	}
}

func TestEvaluateSelfIsWin(t *testing.T) {
	for _, c := range []color.RGB{rgb(0, 0, 0), rgb(255, 255, 255), rgb(12, 200, 99)} {
		if !Evaluate(c, c, 0).Won() {
			t.Errorf("Evaluate(%v, %v, 0) should win", c, c)
		}
	}
}

func TestApplyGuessWinScenario(t *testing.T) {
	target := rgb(79, 70, 229)
	g := New("g1", &target, "25/05/2024", WithRules(tol10()))

	guess, err := g.ApplyGuess(rgb(85, 60, 229))
	if err != nil {
		t.Fatalf("ApplyGuess: %v", err)
	}
	if !guess.Evaluation.Won() {
		t.Errorf("expected all correct, got %+v", guess.Evaluation)
	}
	if g.Session.State != StateWon {
		t.Errorf("state = %s, want WON", g.Session.State)
	}
	if len(g.Session.Guesses) != 1 {
		t.Errorf("guesses = %d, want 1", len(g.Session.Guesses))
	}
}

func TestApplyGuessMissScenario(t *testing.T) {
	target := rgb(79, 70, 229)
	g := New("g1", &target, "", WithRules(tol10()))

	guess, err := g.ApplyGuess(rgb(0, 0, 0))
	if err != nil {
		t.Fatalf("ApplyGuess: %v", err)
	}
	want := Evaluation{MarkIncorrect, MarkIncorrect, MarkIncorrect}
	if guess.Evaluation != want {
		t.Errorf("evaluation = %+v, want %+v", guess.Evaluation, want)
	}
	if g.Session.State != StatePlaying {
		t.Errorf("state = %s, want PLAYING", g.Session.State)
	}
}

func TestApplyGuessHistoryOrder(t *testing.T) {
	target := rgb(200, 200, 200)
	g := New("g", &target, "")
	subs := []color.RGB{rgb(1, 2, 3), rgb(4, 5, 6), rgb(7, 8, 9), rgb(200, 0, 200)}
	for i, c := range subs {
		if _, err := g.ApplyGuess(c); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if len(g.Session.Guesses) != i+1 {
			t.Fatalf("after %d guesses history len = %d", i+1, len(g.Session.Guesses))
		}
	}
	for i, c := range subs {
		if g.Session.Guesses[i].Guess != c {
			t.Errorf("history[%d] = %v, want %v", i, g.Session.Guesses[i].Guess, c)
		}
	}
	if g.Session.Won() {
		t.Error("no guess matched, should still be playing")
	}
}

func TestApplyGuessAfterWonIsNoop(t *testing.T) {
	target := rgb(10, 10, 10)
	g := New("g", &target, "")
	if _, err := g.ApplyGuess(target); err != nil {
		t.Fatal(err)
	}
	before := g.Session
	_, err := g.ApplyGuess(rgb(0, 0, 0))
	if !errors.Is(err, ErrAlreadyWon) {
		t.Fatalf("err = %v, want ErrAlreadyWon", err)
	}
	if len(g.Session.Guesses) != len(before.Guesses) || g.Session.State != StateWon {
		t.Errorf("session mutated after win: %+v", g.Session)
	}
}

func TestApplyGuessNoTarget(t *testing.T) {
	g := New("g", nil, "01/01/2025")
	if _, err := g.ApplyGuess(rgb(1, 1, 1)); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("err = %v, want ErrNoTarget", err)
	}
	if len(g.Session.Guesses) != 0 {
		t.Error("guess recorded without a target")
	}
	if _, err := g.UseHint(); !errors.Is(err, ErrNoTarget) {
		t.Errorf("UseHint err = %v, want ErrNoTarget", err)
	}
	if g.Session.HintsUsed != 0 {
		t.Error("hint counted without a target")
	}
}

func TestUseHintExhaustion(t *testing.T) {
	target := rgb(50, 60, 70)
	g := New("g", &target, "", WithRand(&fixedRand{vals: []int{0, 1, 2}}))
	for i := 0; i < DefaultMaxHints; i++ {
		if _, err := g.UseHint(); err != nil {
			t.Fatalf("hint %d: %v", i, err)
		}
	}
	if _, err := g.UseHint(); !errors.Is(err, ErrHintsExhausted) {
		t.Fatalf("err = %v, want ErrHintsExhausted", err)
	}
	if g.Session.HintsUsed != DefaultMaxHints {
		t.Errorf("HintsUsed = %d, want %d", g.Session.HintsUsed, DefaultMaxHints)
	}
	if g.HintsRemaining() != 0 {
		t.Errorf("HintsRemaining = %d", g.HintsRemaining())
	}
}

func TestUseHintAllowedAfterWin(t *testing.T) {
	target := rgb(50, 60, 70)
	g := New("g", &target, "")
	if _, err := g.ApplyGuess(target); err != nil {
		t.Fatal(err)
	}
	if _, err := g.UseHint(); err != nil {
		t.Errorf("UseHint after win: %v", err)
	}
}

func TestGiveUpRevealsWithoutMutation(t *testing.T) {
	target := rgb(1, 2, 3)
	g := New("g", &target, "")
	_, _ = g.ApplyGuess(rgb(100, 100, 100))
	got, err := g.GiveUp()
	if err != nil || got != target {
		t.Fatalf("GiveUp = %v, %v", got, err)
	}
	if g.Session.State != StatePlaying || len(g.Session.Guesses) != 1 {
		t.Errorf("GiveUp mutated session: %+v", g.Session)
	}
	_, _ = g.ApplyGuess(target)
	if _, err := g.GiveUp(); !errors.Is(err, ErrAlreadyWon) {
		t.Errorf("GiveUp after win err = %v", err)
	}
}

func TestReset(t *testing.T) {
	target := rgb(1, 2, 3)
	g := New("g", &target, "02/02/2024")
	_, _ = g.ApplyGuess(target)
	_, _ = g.UseHint()
	g.Reset()
	if g.Session.State != StatePlaying || len(g.Session.Guesses) != 0 || g.Session.HintsUsed != 0 {
		t.Errorf("Reset left %+v", g.Session)
	}
	if g.Session.Date != "02/02/2024" || g.Target == nil {
		t.Error("Reset should keep date and target")
	}
}

func TestWithSessionResumes(t *testing.T) {
	target := rgb(1, 2, 3)
	saved := Session{Date: "03/03/2024", Guesses: []Guess{{Guess: rgb(9, 9, 9)}}, HintsUsed: 1, State: StatePlaying}
	g := New("g", &target, "03/03/2024", WithSession(saved))
	if len(g.Session.Guesses) != 1 || g.HintsRemaining() != 1 {
		t.Errorf("resumed session = %+v", g.Session)
	}
}

func TestHintsOverBudgetResume(t *testing.T) {
	target := rgb(1, 2, 3)
	saved := Session{Date: "03/03/2024", HintsUsed: 2, State: StatePlaying}
	g := New("g", &target, "03/03/2024", WithSession(saved), WithRules(Rules{Tolerance: DefaultTolerance, HintRange: DefaultHintRange, MaxHints: 1}))
	if g.HintsRemaining() != 0 {
		t.Errorf("HintsRemaining = %d, want 0", g.HintsRemaining())
	}
	if _, err := g.UseHint(); !errors.Is(err, ErrHintsExhausted) {
		t.Errorf("UseHint err = %v, want ErrHintsExhausted", err)
	}
	if g.Session.HintsUsed != 2 {
		t.Errorf("HintsUsed = %d, want 2", g.Session.HintsUsed)
	}
}

func TestSessionValid(t *testing.T) {
	win := Guess{Guess: rgb(1, 1, 1), Evaluation: Evaluation{MarkCorrect, MarkCorrect, MarkCorrect}}
	miss := Guess{Guess: rgb(1, 1, 1), Evaluation: Evaluation{MarkIncorrect, MarkCorrect, MarkCorrect}}
	cases := []struct {
		s    Session
		want bool
	}{
		{NewSession("x"), true},
		{Session{State: "LOST"}, false},
		{Session{State: StatePlaying, HintsUsed: -1}, false},
		{Session{State: StatePlaying, HintsUsed: DefaultMaxHints + 1}, true},
		{Session{State: StateWon}, false},
		{Session{State: StateWon, Guesses: []Guess{miss}}, false},
		{Session{State: StateWon, Guesses: []Guess{miss, win}}, true},
	}
	for i, c := range cases {
		if got := c.s.Valid(); got != c.want {
			t.Errorf("case %d: Valid = %v, want %v", i, got, c.want)
		}
	}
}

package color

import (
	"encoding/json"
	"errors"
	"testing"
)

// seq is a Rand that replays fixed values (mod n).
type seq struct {
	vals []int
	i    int
}

func (s *seq) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func TestNewClamps(t *testing.T) {
	cases := []struct {
		r, g, b    int
		wr, wg, wb int
	}{
		{0, 0, 0, 0, 0, 0},
		{255, 255, 255, 255, 255, 255},
		{-1, 256, 128, 0, 255, 128},
		{-500, 1000, 7, 0, 255, 7},
	}
	for _, c := range cases {
		got := New(c.r, c.g, c.b)
		if got.R() != c.wr || got.G() != c.wg || got.B() != c.wb {
			t.Errorf("New(%d,%d,%d) = %v, want (%d,%d,%d)", c.r, c.g, c.b, got, c.wr, c.wg, c.wb)
		}
	}
}

func TestWithAndGet(t *testing.T) {
	c := New(10, 20, 30)
	u, err := c.With(Green, 300)
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if u.Get(Green) != 255 {
		t.Errorf("With(Green, 300).G = %d, want 255", u.Get(Green))
	}
	if c.Get(Green) != 20 {
		t.Errorf("original mutated: G = %d", c.Get(Green))
	}
	if _, err := c.With(Channel("x"), 1); !errors.Is(err, ErrInvalidChannel) {
		t.Errorf("With(x) err = %v, want ErrInvalidChannel", err)
	}
}

func TestParseChannel(t *testing.T) {
	for in, want := range map[string]Channel{"r": Red, "Green": Green, " B ": Blue, "blue": Blue} {
		got, err := ParseChannel(in)
		if err != nil || got != want {
			t.Errorf("ParseChannel(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseChannel("alpha"); !errors.Is(err, ErrInvalidChannel) {
		t.Errorf("ParseChannel(alpha) err = %v", err)
	}
}

func TestDiff(t *testing.T) {
	a, b := New(85, 60, 229), New(79, 70, 229)
	if d := Diff(a, b, Red); d != 6 {
		t.Errorf("Diff red = %d, want 6", d)
	}
	if d := Diff(a, b, Green); d != 10 {
		t.Errorf("Diff green = %d, want 10", d)
	}
	if d := Diff(a, b, Blue); d != 0 {
		t.Errorf("Diff blue = %d, want 0", d)
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := New(79, 70, 229)
	if h := c.Hex(); h != "#4f46e5" {
		t.Errorf("Hex = %s, want #4f46e5", h)
	}
	back, err := ParseHex("#4f46e5")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if back != c {
		t.Errorf("ParseHex = %v, want %v", back, c)
	}
	if _, err := ParseHex("nope"); err == nil {
		t.Error("ParseHex(nope) should fail")
	}
}

func TestDistance(t *testing.T) {
	c := New(100, 150, 200)
	if d := Distance(c, c); d != 0 {
		t.Errorf("Distance(c,c) = %v, want 0", d)
	}
	if Distance(New(0, 0, 0), New(255, 255, 255)) <= Distance(New(0, 0, 0), New(10, 10, 10)) {
		t.Error("black/white should be further apart than black/near-black")
	}
}

func TestJSONClampsOnDecode(t *testing.T) {
	var c RGB
	if err := json.Unmarshal([]byte(`{"r":-4,"g":300,"b":12}`), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c != New(0, 255, 12) {
		t.Errorf("decoded %v, want rgb(0, 255, 12)", c)
	}
	out, err := json.Marshal(New(1, 2, 3))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"r":1,"g":2,"b":3}` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestRandomUsesSource(t *testing.T) {
	got := Random(&seq{vals: []int{10, 20, 300}})
	if got != New(10, 20, 300%256) {
		t.Errorf("Random = %v", got)
	}
	// default source stays in range
	for i := 0; i < 50; i++ {
		c := Random(nil)
		for _, ch := range Channels {
			if v := c.Get(ch); v < 0 || v > 255 {
				t.Fatalf("channel %s out of range: %d", ch, v)
			}
		}
	}
}

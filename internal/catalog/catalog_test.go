package catalog

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/robalobadob/colordle/apps/go-server/internal/color"
	"github.com/robalobadob/colordle/apps/go-server/internal/store"
)

var fixedNow = func() time.Time { return time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC) }

func constGen(c color.RGB) Generator { return func(string) color.RGB { return c } }

func newTest(t *testing.T, kv store.KV) *Catalog {
	t.Helper()
	return New(kv, WithClock(fixedNow), WithGenerator(constGen(color.New(1, 2, 3))))
}

func dates(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Date
	}
	return out
}

func TestSeededOnFirstUse(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	c := newTest(t, kv)

	got, ok, err := c.Lookup(ctx, "03/06/2024")
	if err != nil || !ok || got != TodayColor {
		t.Fatalf("Lookup(today) = %v ok=%v err=%v", got, ok, err)
	}
	got, ok, _ = c.Lookup(ctx, "26/05/2024")
	if !ok || got != color.New(255, 99, 71) {
		t.Errorf("Lookup(26/05/2024) = %v ok=%v", got, ok)
	}
	if _, ok, _ := kv.Get(ctx, Key); !ok {
		t.Error("seed not persisted")
	}

	list, _ := c.List(ctx)
	want := []string{"03/06/2024", "28/05/2024", "27/05/2024", "26/05/2024", "25/05/2024", "24/05/2024"}
	if !slices.Equal(dates(list), want) {
		t.Errorf("List = %v, want %v", dates(list), want)
	}
}

func TestEnsureIsStable(t *testing.T) {
	ctx := context.Background()
	calls := 0
	c := New(store.NewMemory(), WithClock(fixedNow), WithGenerator(func(string) color.RGB {
		calls++
		return color.New(calls*10, 0, 0)
	}))

	first, err := c.Ensure(ctx, "10/06/2024")
	if err != nil {
		t.Fatal(err)
	}
	second, _ := c.Ensure(ctx, "10/06/2024")
	if first != second || calls != 1 {
		t.Errorf("Ensure not stable: %v then %v (%d generator calls)", first, second, calls)
	}
	existing, _ := c.Ensure(ctx, "25/05/2024")
	if existing != color.New(100, 150, 200) {
		t.Errorf("Ensure(existing) = %v", existing)
	}
	if _, err := c.Ensure(ctx, "2024-06-10"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Ensure(bad date) err = %v", err)
	}
}

func TestInsertRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	c := newTest(t, store.NewMemory())

	if err := c.Insert(ctx, Entry{Date: "01/07/2024", Color: color.New(9, 9, 9)}); err != nil {
		t.Fatal(err)
	}
	err := c.Insert(ctx, Entry{Date: "01/07/2024", Color: color.New(0, 0, 0)})
	if !errors.Is(err, ErrDuplicateDate) {
		t.Fatalf("duplicate insert err = %v", err)
	}
	got, _, _ := c.Lookup(ctx, "01/07/2024")
	if got != color.New(9, 9, 9) {
		t.Errorf("duplicate insert mutated entry: %v", got)
	}
	if err := c.Insert(ctx, Entry{Date: "32/01/2024"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("invalid insert err = %v", err)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	c := newTest(t, store.NewMemory())

	e, err := c.Update(ctx, "25/05/2024", color.Green, 300)
	if err != nil {
		t.Fatal(err)
	}
	if e.Color != color.New(100, 255, 200) {
		t.Errorf("Update clamped = %v", e.Color)
	}
	e, _ = c.Update(ctx, "25/05/2024", color.Red, -4)
	if e.Color.R() != 0 {
		t.Errorf("negative not clamped: %v", e.Color)
	}
	if _, err := c.Update(ctx, "01/01/1999", color.Red, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) err = %v", err)
	}
	if _, err := c.Update(ctx, "25/05/2024", color.Channel("x"), 1); !errors.Is(err, color.ErrInvalidChannel) {
		t.Errorf("Update(bad channel) err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newTest(t, store.NewMemory())
	if err := c.Delete(ctx, "25/05/2024"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Lookup(ctx, "25/05/2024"); ok {
		t.Error("entry still present after delete")
	}
	if err := c.Delete(ctx, "25/05/2024"); err != nil {
		t.Errorf("deleting absent date: %v", err)
	}
}

func TestReplaceAll(t *testing.T) {
	ctx := context.Background()
	c := newTest(t, store.NewMemory())

	batch := []Entry{
		{Date: "02/07/2024", Color: color.New(1, 1, 1)},
		{Date: "01/07/2024", Color: color.New(2, 2, 2)},
	}
	if err := c.ReplaceAll(ctx, batch); err != nil {
		t.Fatal(err)
	}
	list, _ := c.List(ctx)
	if !slices.Equal(dates(list), []string{"02/07/2024", "01/07/2024"}) {
		t.Errorf("after ReplaceAll = %v", dates(list))
	}

	dup := append(batch, Entry{Date: "01/07/2024"})
	if err := c.ReplaceAll(ctx, dup); !errors.Is(err, ErrDuplicateDate) {
		t.Fatalf("duplicate batch err = %v", err)
	}
	if err := c.ReplaceAll(ctx, []Entry{{Date: "nope"}}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("invalid batch err = %v", err)
	}
	list, _ = c.List(ctx)
	if len(list) != 2 {
		t.Errorf("rejected batch mutated catalog: %v", dates(list))
	}
}

func TestMalformedRecordIsReseeded(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	_ = kv.Put(ctx, Key, []byte("{broken"))
	c := newTest(t, kv)

	list, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"03/06/2024", "28/05/2024", "27/05/2024", "26/05/2024", "25/05/2024", "24/05/2024"}
	if !slices.Equal(dates(list), want) {
		t.Errorf("List over malformed = %v, want %v", dates(list), want)
	}
	got, err := c.Ensure(ctx, "03/06/2024")
	if err != nil || got != TodayColor {
		t.Errorf("Ensure after malformed = %v err=%v", got, err)
	}
	raw, _, _ := kv.Get(ctx, Key)
	if string(raw) == "{broken" {
		t.Error("malformed record was not replaced")
	}
}

func TestSaltedGeneratorDeterministic(t *testing.T) {
	a := SaltedGenerator("pepper")
	b := SaltedGenerator("pepper")
	if a("01/01/2025") != b("01/01/2025") {
		t.Error("same salt and date gave different colors")
	}
	if a("01/01/2025") == a("02/01/2025") && a("02/01/2025") == a("03/01/2025") {
		t.Error("salted generator ignores the date")
	}
}

// internal/catalog/catalog.go
//
// Calendar of daily target colours.
// The whole catalog is one JSON record in the key-value store
// (colordle_daily_colors), read and rewritten under a mutex.
//
// Notes:
//   - A missing record is seeded from the embedded initial colours plus
//     today's date mapped to indigo.
//   - A malformed record is logged and treated as empty; the next write
//     replaces it.
//   - Ensure synthesises a colour the first time a date is requested and
//     stores it, so the answer is stable afterwards.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/colordle/apps/go-server/assets"
	"github.com/robalobadob/colordle/apps/go-server/internal/color"
	"github.com/robalobadob/colordle/apps/go-server/internal/daily"
	"github.com/robalobadob/colordle/apps/go-server/internal/store"
)

// Key is the KV record holding the catalog.
const Key = "colordle_daily_colors"

var (
	ErrDuplicateDate = errors.New("date already has a color")
	ErrNotFound      = errors.New("date not in catalog")
	ErrInvalidDate   = errors.New("invalid date key")
)

// TodayColor is the target the seed assigns to the install date.
var TodayColor = color.New(79, 70, 229)

// Entry is one dated target.
type Entry struct {
	Date  string    `json:"date"`
	Color color.RGB `json:"color"`
}

// Generator synthesises a target for a date that has none.
type Generator func(date string) color.RGB

// RandomGenerator draws from rng (the global source when nil).
func RandomGenerator(rng color.Rand) Generator {
	return func(string) color.RGB { return color.Random(rng) }
}

// SaltedGenerator derives the colour from HMAC(salt, date), so every
// instance sharing the salt picks the same colour for a date.
func SaltedGenerator(salt string) Generator {
	return func(date string) color.RGB {
		seed := daily.Seed(date, salt)
		return color.Random(rand.New(rand.NewPCG(seed, seed>>1|1)))
	}
}

type Catalog struct {
	kv  store.KV
	mu  sync.Mutex
	gen Generator
	now func() time.Time
	loc *time.Location
}

type Option func(*Catalog)

func WithGenerator(g Generator) Option { return func(c *Catalog) { c.gen = g } }

// WithClock sets the clock used to date the seed's indigo entry.
func WithClock(now func() time.Time) Option { return func(c *Catalog) { c.now = now } }

func WithLocation(loc *time.Location) Option { return func(c *Catalog) { c.loc = loc } }

func New(kv store.KV, opts ...Option) *Catalog {
	c := &Catalog{
		kv:  kv,
		gen: RandomGenerator(nil),
		now: time.Now,
		loc: time.UTC,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Lookup returns the colour for date, if any.
func (c *Catalog) Lookup(ctx context.Context, date string) (color.RGB, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load(ctx)
	if err != nil {
		return color.RGB{}, false, err
	}
	e, ok := lo.Find(entries, func(e Entry) bool { return e.Date == date })
	return e.Color, ok, nil
}

// Ensure returns the colour for date, creating and storing one if the
// date is not in the catalog yet.
func (c *Catalog) Ensure(ctx context.Context, date string) (color.RGB, error) {
	if !daily.Valid(date) {
		return color.RGB{}, ErrInvalidDate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load(ctx)
	if err != nil {
		return color.RGB{}, err
	}
	if e, ok := lo.Find(entries, func(e Entry) bool { return e.Date == date }); ok {
		return e.Color, nil
	}
	rgb := c.gen(date)
	if err := c.save(ctx, append(entries, Entry{Date: date, Color: rgb})); err != nil {
		return color.RGB{}, err
	}
	log.Info().Str("date", date).Str("color", rgb.Hex()).Msg("daily color created")
	return rgb, nil
}

// Insert adds a new entry. Existing dates are rejected untouched.
func (c *Catalog) Insert(ctx context.Context, e Entry) error {
	if !daily.Valid(e.Date) {
		return ErrInvalidDate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load(ctx)
	if err != nil {
		return err
	}
	if lo.ContainsBy(entries, func(x Entry) bool { return x.Date == e.Date }) {
		return ErrDuplicateDate
	}
	return c.save(ctx, append(entries, e))
}

// Delete removes date. Missing dates are ignored.
func (c *Catalog) Delete(ctx context.Context, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load(ctx)
	if err != nil {
		return err
	}
	kept := lo.Reject(entries, func(e Entry, _ int) bool { return e.Date == date })
	if len(kept) == len(entries) {
		return nil
	}
	return c.save(ctx, kept)
}

// Update sets one channel of an existing entry, clamping v to [0,255].
func (c *Catalog) Update(ctx context.Context, date string, ch color.Channel, v int) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	_, idx, ok := lo.FindIndexOf(entries, func(e Entry) bool { return e.Date == date })
	if !ok {
		return Entry{}, ErrNotFound
	}
	rgb, err := entries[idx].Color.With(ch, v)
	if err != nil {
		return Entry{}, err
	}
	entries[idx].Color = rgb
	if err := c.save(ctx, entries); err != nil {
		return Entry{}, err
	}
	return entries[idx], nil
}

// List returns every entry, most recent date first.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	sortDesc(entries)
	return entries, nil
}

// ReplaceAll writes entries as the whole catalog. Batches with invalid
// or repeated dates are rejected and nothing is written.
func (c *Catalog) ReplaceAll(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		if !daily.Valid(e.Date) {
			return fmt.Errorf("%w: %q", ErrInvalidDate, e.Date)
		}
	}
	if dups := lo.FindDuplicatesBy(entries, func(e Entry) string { return e.Date }); len(dups) > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateDate, dups[0].Date)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, append([]Entry{}, entries...))
}

// ---- storage ----

func (c *Catalog) load(ctx context.Context) ([]Entry, error) {
	raw, ok, err := c.kv.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if !ok {
		return c.reseed(ctx), nil
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Warn().Err(err).Msg("malformed catalog record, reseeding")
		return c.reseed(ctx), nil
	}
	valid := lo.Filter(entries, func(e Entry, _ int) bool { return daily.Valid(e.Date) })
	return lo.UniqBy(valid, func(e Entry) string { return e.Date }), nil
}

// reseed writes the default catalog. A failed write still returns the
// seed so the day stays playable.
func (c *Catalog) reseed(ctx context.Context) []Entry {
	entries := c.seed()
	if err := c.save(ctx, entries); err != nil {
		log.Warn().Err(err).Msg("could not persist seed catalog")
	}
	return entries
}

func (c *Catalog) save(ctx context.Context, entries []Entry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := c.kv.Put(ctx, Key, b); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

func (c *Catalog) seed() []Entry {
	var entries []Entry
	if err := json.Unmarshal(assets.SeedColors(), &entries); err != nil {
		log.Error().Err(err).Msg("embedded seed colors unreadable")
		entries = nil
	}
	today := daily.Today(c.now(), c.loc)
	entries = lo.Reject(entries, func(e Entry, _ int) bool { return e.Date == today })
	return append([]Entry{{Date: today, Color: TodayColor}}, entries...)
}

func sortDesc(entries []Entry) {
	dates := lo.Map(entries, func(e Entry, _ int) string { return e.Date })
	daily.SortDesc(dates)
	byDate := lo.KeyBy(entries, func(e Entry) string { return e.Date })
	for i, d := range dates {
		entries[i] = byDate[d]
	}
}

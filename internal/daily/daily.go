package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"time"
)

// Layout is the DD/MM/YYYY date key format.
const Layout = "02/01/2006"

// DateKey returns DD/MM/YYYY for t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the date key of now as seen in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return DateKey(now.In(loc))
}

// Parse validates a DD/MM/YYYY key and returns midnight UTC of that day.
// Keys that do not round-trip (e.g. 31/02/2024, 1/2/2024) are rejected.
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	if t.Format(Layout) != key {
		return time.Time{}, fmt.Errorf("invalid date key %q", key)
	}
	return t, nil
}

// Valid reports whether key is a well-formed date key.
func Valid(key string) bool {
	_, err := Parse(key)
	return err == nil
}

// SortDesc orders keys most recent first. Unparseable keys sort last,
// lexically among themselves.
func SortDesc(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ti, ei := Parse(keys[i])
		tj, ej := Parse(keys[j])
		switch {
		case ei != nil && ej != nil:
			return keys[i] < keys[j]
		case ei != nil:
			return false
		case ej != nil:
			return true
		}
		return ti.After(tj)
	})
}

// Seed returns a deterministic value for a date key using
// HMAC(salt, key). The same salt yields the same daily colour on every
// instance, even before the catalog has been written.
func Seed(key, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(key))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

package daily

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colordle/apps/go-server/internal/game"
	"github.com/robalobadob/colordle/apps/go-server/internal/store"
)

const sessionKeyPrefix = "colordle_game_"

// Store persists each player's daily sessions, one record per date.
type Store struct {
	kv store.KV
}

// NewStore wraps kv.
func NewStore(kv store.KV) *Store {
	return &Store{kv: kv}
}

func playerPrefix(player string) string {
	return sessionKeyPrefix + player + "_"
}

// SessionKey is the record key for a player's session on date.
func SessionKey(player, date string) string {
	return playerPrefix(player) + date
}

// Load returns the saved session, or a fresh one when nothing usable is
// stored. Malformed records are logged and treated as missing.
func (s *Store) Load(ctx context.Context, player, date string) (game.Session, error) {
	key := SessionKey(player, date)
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return game.Session{}, err
	}
	if !ok {
		return game.NewSession(date), nil
	}
	sess, ok := s.decode(key, raw)
	if !ok || sess.Date != date {
		return game.NewSession(date), nil
	}
	return sess, nil
}

// Save overwrites the player's record for sess.Date.
func (s *Store) Save(ctx context.Context, player string, sess game.Session) error {
	if sess.Date == "" {
		return fmt.Errorf("save session: practice sessions are not persisted")
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.kv.Put(ctx, SessionKey(player, sess.Date), b)
}

// WonDates scans the player's sessions and returns the dates in WON
// state, most recent first.
func (s *Store) WonDates(ctx context.Context, player string) ([]string, error) {
	prefix := playerPrefix(player)
	keys, err := s.kv.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var won []string
	for _, key := range keys {
		date := strings.TrimPrefix(key, prefix)
		if !Valid(date) {
			continue
		}
		raw, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if sess, ok := s.decode(key, raw); ok && sess.Won() && sess.Date == date {
			won = append(won, date)
		}
	}
	SortDesc(won)
	return won, nil
}

func (s *Store) decode(key string, raw []byte) (game.Session, bool) {
	var sess game.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("malformed saved session, starting fresh")
		return game.Session{}, false
	}
	if !sess.Valid() {
		log.Warn().Str("key", key).Msg("inconsistent saved session, starting fresh")
		return game.Session{}, false
	}
	if sess.Guesses == nil {
		sess.Guesses = []game.Guess{}
	}
	return sess, true
}

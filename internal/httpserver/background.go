package httpserver

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colordle/apps/go-server/internal/daily"
)

// sweepLoop evicts idle practice games and rate limiters every interval.
func (s *Server) sweepLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			games := s.sweepPractice()
			limiters := s.limiter.cleanup(s.now().Add(-10 * time.Minute))
			if games > 0 || limiters > 0 {
				log.Debug().Int("games", games).Int("limiters", limiters).Int("active", s.games.Len()).Msg("swept idle state")
			}
		}
	}
}

// scheduleLoop makes sure today's and tomorrow's colours exist at
// startup and again shortly after each local midnight.
func (s *Server) scheduleLoop(ctx context.Context) {
	for {
		s.ensureUpcoming(ctx)
		wait := untilNextRun(s.now().In(s.cfg.Location))
		log.Debug().Dur("in", wait).Msg("next daily color check scheduled")
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// ensureUpcoming creates the colours for today and tomorrow if missing.
func (s *Server) ensureUpcoming(ctx context.Context) {
	now := s.now().In(s.cfg.Location)
	for _, day := range []time.Time{now, now.AddDate(0, 0, 1)} {
		key := daily.DateKey(day)
		if _, err := s.catalog.Ensure(ctx, key); err != nil {
			log.Warn().Err(err).Str("date", key).Msg("could not ensure daily color")
		}
	}
}

// untilNextRun is the wait until one minute past the next local midnight.
func untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 1, 0, 0, now.Location())
	return next.Sub(now)
}

// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle and its archive.
//   - GET  /daily?date=       → puzzle view for today (or a past date)
//   - POST /daily/guess       → submit a colour for a date
//   - POST /daily/hint        → consume one hint
//   - POST /daily/give-up     → reveal the target (session unchanged)
//   - GET  /daily/share?date= → spoiler-free share text
//   - GET  /archive           → past puzzles with the player's won flags
//
// Each player has one saved session per date, keyed by the player
// cookie. Every mutation is written back before responding. Dates after
// today are not playable, and a past date without a catalog entry is not
// found.

package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/robalobadob/colordle/apps/go-server/internal/catalog"
	"github.com/robalobadob/colordle/apps/go-server/internal/color"
	"github.com/robalobadob/colordle/apps/go-server/internal/daily"
	"github.com/robalobadob/colordle/apps/go-server/internal/game"
)

// mountDaily registers /daily and /archive.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyView)
		r.Post("/guess", s.handleDailyGuess)
		r.Post("/hint", s.handleDailyHint)
		r.Post("/give-up", s.handleDailyGiveUp)
		r.Get("/share", s.handleDailyShare)
	})
	r.Get("/archive", s.handleArchive)
}

// sessionView is the client-facing shape of a daily or practice game.
// Target is only present once the game is won.
type sessionView struct {
	GameID         string       `json:"gameId,omitempty"`
	Date           string       `json:"date,omitempty"`
	Guesses        []game.Guess `json:"guesses"`
	HintsUsed      int          `json:"hintsUsed"`
	HintsRemaining int          `json:"hintsRemaining"`
	State          game.State   `json:"state"`
	Target         *color.RGB   `json:"target,omitempty"`
}

func viewOf(g *game.Game) sessionView {
	v := sessionView{
		Date:           g.Session.Date,
		Guesses:        g.Session.Guesses,
		HintsUsed:      g.Session.HintsUsed,
		HintsRemaining: g.HintsRemaining(),
		State:          g.Session.State,
	}
	if !g.Daily() {
		v.GameID = g.ID
	}
	if g.Session.Won() && g.Target != nil {
		t := *g.Target
		v.Target = &t
	}
	return v
}

type guessRes struct {
	Guess   game.Guess  `json:"guess"`
	Session sessionView `json:"session"`
}

type hintRes struct {
	Hint    game.Hint   `json:"hint"`
	Session sessionView `json:"session"`
}

type giveUpRes struct {
	Target color.RGB `json:"target"`
}

type shareRes struct {
	Text string `json:"text"`
}

// resolveDate validates a date key, defaulting to today. Future dates
// are reported as not found.
func (s *Server) resolveDate(raw string) (string, error) {
	today := s.today()
	if raw == "" {
		return today, nil
	}
	t, err := daily.Parse(raw)
	if err != nil {
		return "", catalog.ErrInvalidDate
	}
	now, _ := daily.Parse(today)
	if t.After(now) {
		return "", catalog.ErrNotFound
	}
	return raw, nil
}

// loadDaily builds the game for player on date: the catalog supplies the
// target and the progress store the saved session. Only today's colour is
// created on demand; earlier dates must already be in the catalog.
func (s *Server) loadDaily(ctx context.Context, player, date string) (*game.Game, error) {
	target, err := s.dailyTarget(ctx, date)
	if err != nil {
		return nil, err
	}
	sess, err := s.progress.Load(ctx, player, date)
	if err != nil {
		return nil, err
	}
	return game.New(date, &target, date,
		game.WithRules(s.cfg.Rules),
		game.WithRand(s.rng),
		game.WithSession(sess),
	), nil
}

func (s *Server) dailyTarget(ctx context.Context, date string) (color.RGB, error) {
	if date == s.today() {
		return s.catalog.Ensure(ctx, date)
	}
	target, ok, err := s.catalog.Lookup(ctx, date)
	if err != nil {
		return color.RGB{}, err
	}
	if !ok {
		return color.RGB{}, catalog.ErrNotFound
	}
	return target, nil
}

// mutateDaily loads, applies fn and saves under the per-player/date lock.
// When fn fails nothing is written.
func (s *Server) mutateDaily(w http.ResponseWriter, r *http.Request, rawDate string, fn func(*game.Game) (any, error)) {
	player := s.ensurePlayerID(w, r)
	date, err := s.resolveDate(rawDate)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	unlock := s.dailyMu.Lock(player + "|" + date)
	defer unlock()

	g, err := s.loadDaily(r.Context(), player, date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	res, err := fn(g)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.progress.Save(r.Context(), player, g.Session); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// GET /daily

func (s *Server) handleDailyView(w http.ResponseWriter, r *http.Request) {
	player := s.ensurePlayerID(w, r)
	date, err := s.resolveDate(r.URL.Query().Get("date"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	g, err := s.loadDaily(r.Context(), player, date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(g))
}

// -----------------------------------------------------------------------------
// POST /daily/guess

type dailyGuessReq struct {
	Date  string     `json:"date"`
	Guess *color.RGB `json:"guess"`
}

func (s *Server) handleDailyGuess(w http.ResponseWriter, r *http.Request) {
	var req dailyGuessReq
	if !decode(w, r, &req) {
		return
	}
	if req.Guess == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.mutateDaily(w, r, req.Date, func(g *game.Game) (any, error) {
		guess, err := g.ApplyGuess(*req.Guess)
		if err != nil {
			return nil, err
		}
		return guessRes{Guess: guess, Session: viewOf(g)}, nil
	})
}

// -----------------------------------------------------------------------------
// POST /daily/hint

type dailyDateReq struct {
	Date string `json:"date"`
}

func (s *Server) handleDailyHint(w http.ResponseWriter, r *http.Request) {
	var req dailyDateReq
	if !decode(w, r, &req) {
		return
	}
	s.mutateDaily(w, r, req.Date, func(g *game.Game) (any, error) {
		h, err := g.UseHint()
		if err != nil {
			return nil, err
		}
		return hintRes{Hint: h, Session: viewOf(g)}, nil
	})
}

// -----------------------------------------------------------------------------
// POST /daily/give-up

func (s *Server) handleDailyGiveUp(w http.ResponseWriter, r *http.Request) {
	var req dailyDateReq
	if !decode(w, r, &req) {
		return
	}
	player := s.ensurePlayerID(w, r)
	date, err := s.resolveDate(req.Date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	g, err := s.loadDaily(r.Context(), player, date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	target, err := g.GiveUp()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, giveUpRes{Target: target})
}

// -----------------------------------------------------------------------------
// GET /daily/share

func (s *Server) handleDailyShare(w http.ResponseWriter, r *http.Request) {
	player := s.ensurePlayerID(w, r)
	date, err := s.resolveDate(r.URL.Query().Get("date"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	sess, err := s.progress.Load(r.Context(), player, date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shareRes{Text: game.ShareText(sess, s.cfg.ShareURL)})
}

// -----------------------------------------------------------------------------
// GET /archive

type archiveItem struct {
	Date  string     `json:"date"`
	Won   bool       `json:"won"`
	Color *color.RGB `json:"color,omitempty"`
}

// handleArchive lists catalog dates up to today, most recent first. Past
// colours are shown; today's only once the player has won it.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	player := s.ensurePlayerID(w, r)
	entries, err := s.catalog.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	won, err := s.progress.WonDates(r.Context(), player)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	wonSet := lo.SliceToMap(won, func(d string) (string, bool) { return d, true })
	today := s.today()
	todayT, _ := daily.Parse(today)

	items := lo.FilterMap(entries, func(e catalog.Entry, _ int) (archiveItem, bool) {
		t, err := daily.Parse(e.Date)
		if err != nil || t.After(todayT) {
			return archiveItem{}, false
		}
		item := archiveItem{Date: e.Date, Won: wonSet[e.Date]}
		if e.Date != today || item.Won {
			c := e.Color
			item.Color = &c
		}
		return item, true
	})
	writeJSON(w, http.StatusOK, items)
}

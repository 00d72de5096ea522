// internal/httpserver/routes_practice.go
//
// Practice mode: unlimited games against random targets. A game can be
// reset to replay the same target from scratch.
// Games live only in the in-memory registry and are swept after
// PRACTICE_TTL of inactivity.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/robalobadob/colordle/apps/go-server/internal/color"
	"github.com/robalobadob/colordle/apps/go-server/internal/game"
)

func (s *Server) mountPractice(r chi.Router) {
	r.Route("/practice", func(r chi.Router) {
		r.Post("/new", s.handlePracticeNew)
		r.Post("/guess", s.handlePracticeGuess)
		r.Post("/hint", s.handlePracticeHint)
		r.Post("/give-up", s.handlePracticeGiveUp)
		r.Post("/reset", s.handlePracticeReset)
		r.Get("/share", s.handlePracticeShare)
	})
}

type practiceReq struct {
	GameID string     `json:"gameId"`
	Guess  *color.RGB `json:"guess,omitempty"`
}

// practice runs fn against a stored game under the registry lock.
func (s *Server) practice(w http.ResponseWriter, r *http.Request, id string, fn func(*game.Game) (any, error)) {
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var res any
	err := s.games.Update(r.Context(), id, func(g *game.Game) error {
		var err error
		res, err = fn(g)
		return err
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePracticeNew(w http.ResponseWriter, r *http.Request) {
	target := color.Random(s.rng)
	g := game.New(uuid.NewString(), &target, "",
		game.WithRules(s.cfg.Rules),
		game.WithRand(s.rng),
	)
	if err := s.games.Save(r.Context(), g); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(g))
}

func (s *Server) handlePracticeGuess(w http.ResponseWriter, r *http.Request) {
	var req practiceReq
	if !decode(w, r, &req) {
		return
	}
	if req.Guess == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.practice(w, r, req.GameID, func(g *game.Game) (any, error) {
		guess, err := g.ApplyGuess(*req.Guess)
		if err != nil {
			return nil, err
		}
		return guessRes{Guess: guess, Session: viewOf(g)}, nil
	})
}

func (s *Server) handlePracticeHint(w http.ResponseWriter, r *http.Request) {
	var req practiceReq
	if !decode(w, r, &req) {
		return
	}
	s.practice(w, r, req.GameID, func(g *game.Game) (any, error) {
		h, err := g.UseHint()
		if err != nil {
			return nil, err
		}
		return hintRes{Hint: h, Session: viewOf(g)}, nil
	})
}

func (s *Server) handlePracticeGiveUp(w http.ResponseWriter, r *http.Request) {
	var req practiceReq
	if !decode(w, r, &req) {
		return
	}
	s.practice(w, r, req.GameID, func(g *game.Game) (any, error) {
		target, err := g.GiveUp()
		if err != nil {
			return nil, err
		}
		return giveUpRes{Target: target}, nil
	})
}

func (s *Server) handlePracticeReset(w http.ResponseWriter, r *http.Request) {
	var req practiceReq
	if !decode(w, r, &req) {
		return
	}
	s.practice(w, r, req.GameID, func(g *game.Game) (any, error) {
		g.Reset()
		return viewOf(g), nil
	})
}

func (s *Server) handlePracticeShare(w http.ResponseWriter, r *http.Request) {
	s.practice(w, r, r.URL.Query().Get("gameId"), func(g *game.Game) (any, error) {
		return shareRes{Text: game.ShareText(g.Session, s.cfg.ShareURL)}, nil
	})
}

// sweepPractice evicts practice games idle for longer than the TTL.
func (s *Server) sweepPractice() int {
	if s.cfg.PracticeTTL <= 0 {
		return 0
	}
	return s.games.Sweep(s.now().Add(-s.cfg.PracticeTTL))
}

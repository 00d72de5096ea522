// internal/httpserver/routes_admin.go
//
// Admin surface for curating the daily colour calendar.
//   - POST   /admin/login          → exchange the password for a token cookie
//   - POST   /admin/logout         → clear the cookie
//   - GET    /admin/me             → token check
//   - GET    /admin/colors         → every entry, most recent first
//   - POST   /admin/colors         → insert one entry (duplicates rejected)
//   - PUT    /admin/colors         → replace the whole catalog ("save all")
//   - PATCH  /admin/colors         → set one channel of an entry
//   - DELETE /admin/colors?date=   → remove an entry
//   - GET    /admin/suggestions    → AI colour suggestions (may be empty)

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/colordle/apps/go-server/internal/catalog"
	"github.com/robalobadob/colordle/apps/go-server/internal/color"
	"github.com/robalobadob/colordle/apps/go-server/internal/suggest"
)

const maxSuggestions = 20

func (s *Server) mountAdmin(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.handleAdminLogin)
		r.Post("/logout", s.handleAdminLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.admin.requireAdmin)
			r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]bool{"admin": isAdmin(r)})
			})
			r.Get("/colors", s.handleAdminList)
			r.Post("/colors", s.handleAdminInsert)
			r.Put("/colors", s.handleAdminReplace)
			r.Patch("/colors", s.handleAdminUpdate)
			r.Delete("/colors", s.handleAdminDelete)
			r.Get("/suggestions", s.handleAdminSuggest)
		})
	})
}

type loginReq struct {
	Password string `json:"password"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decode(w, r, &req) {
		return
	}
	if !s.admin.checkPassword(req.Password) {
		hlog.FromRequest(r).Warn().Str("ip", clientIP(r)).Msg("admin login rejected")
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tok, exp, err := s.admin.sign()
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign admin token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.admin.setCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]any{"token": tok, "expiresAt": exp.UTC()})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	s.admin.clearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleAdminList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.catalog.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAdminInsert(w http.ResponseWriter, r *http.Request) {
	var e catalog.Entry
	if !decode(w, r, &e) {
		return
	}
	if err := s.catalog.Insert(r.Context(), e); err != nil {
		writeDomainError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("date", e.Date).Str("color", e.Color.Hex()).Msg("catalog entry added")
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleAdminReplace(w http.ResponseWriter, r *http.Request) {
	var entries []catalog.Entry
	if !decode(w, r, &entries) {
		return
	}
	if err := s.catalog.ReplaceAll(r.Context(), entries); err != nil {
		writeDomainError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Int("entries", len(entries)).Msg("catalog replaced")
	s.handleAdminList(w, r)
}

type updateReq struct {
	Date    string `json:"date"`
	Channel string `json:"channel"`
	Value   *int   `json:"value"`
}

func (s *Server) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateReq
	if !decode(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	ch, err := color.ParseChannel(req.Channel)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	e, err := s.catalog.Update(r.Context(), req.Date, ch, *req.Value)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	if err := s.catalog.Delete(r.Context(), date); err != nil {
		writeDomainError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("date", date).Msg("catalog entry deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminSuggest(w http.ResponseWriter, r *http.Request) {
	count := suggest.DefaultCount
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_count")
			return
		}
		count = min(n, maxSuggestions)
	}
	writeJSON(w, http.StatusOK, s.suggest.Suggest(r.Context(), count))
}

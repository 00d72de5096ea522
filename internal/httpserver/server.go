// internal/httpserver/server.go
//
// HTTP server wiring for the Colordle backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, JSON, CORS, timeouts,
//     panic recovery, per-client rate limiting).
//   - Public endpoints: "/", "/health".
//   - Daily puzzle and archive endpoints: mounted under /daily and /archive.
//   - Practice endpoints: mounted under /practice.
//   - Admin endpoints (JWT gated): mounted under /admin.
//   - Background loops: practice game sweeper and the daily colour scheduler.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Players are anonymous; a long-lived cookie identifies their saved
//     daily progress.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/colordle/apps/go-server/internal/catalog"
	"github.com/robalobadob/colordle/apps/go-server/internal/color"
	"github.com/robalobadob/colordle/apps/go-server/internal/config"
	"github.com/robalobadob/colordle/apps/go-server/internal/daily"
	"github.com/robalobadob/colordle/apps/go-server/internal/game"
	"github.com/robalobadob/colordle/apps/go-server/internal/store"
	"github.com/robalobadob/colordle/apps/go-server/internal/suggest"
)

// Deps are the collaborators a Server routes requests to.
type Deps struct {
	Catalog  *catalog.Catalog
	Progress *daily.Store
	Games    store.Games
	Suggest  suggest.Source
	Rand     color.Rand       // practice targets and hints; global source when nil
	Now      func() time.Time // defaults to time.Now
}

// Server bundles router, configuration and game collaborators.
type Server struct {
	r   *chi.Mux
	cfg config.Config

	catalog  *catalog.Catalog
	progress *daily.Store
	games    store.Games
	suggest  *suggest.Latest
	rng      color.Rand
	now      func() time.Time

	admin   *adminAuth
	limiter *ipLimiter
	dailyMu keyedMutex
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, d Deps) (*Server, error) {
	admin, err := newAdminAuth(cfg)
	if err != nil {
		return nil, err
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		catalog:  d.Catalog,
		progress: d.Progress,
		games:    d.Games,
		suggest:  suggest.NewLatest(lo.Ternary[suggest.Source](d.Suggest == nil, suggest.None{}, d.Suggest)),
		rng:      lo.Ternary(d.Rand == nil, color.DefaultRand, d.Rand),
		now:      lo.Ternary(d.Now == nil, time.Now, d.Now),
		admin:    admin,
		limiter:  newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	if s.games == nil {
		s.games = store.NewMemoryGames()
	}
	if s.cfg.Location == nil {
		s.cfg.Location = time.UTC
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(30 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))
	s.r.Use(s.limiter.middleware)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"colordle-go","endpoints":["/health","/daily","/archive","/practice/*","/admin/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountDaily(s.r)
	s.mountPractice(s.r)
	s.mountAdmin(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})
	return s, nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves on the configured port until ctx is cancelled, running the
// background loops alongside, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	bg, stop := context.WithCancel(ctx)
	defer stop()
	go s.sweepLoop(bg, time.Minute)
	go s.scheduleLoop(bg)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting colordle server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// today is the current date key in the configured time zone.
func (s *Server) today() string {
	return daily.Today(s.now(), s.cfg.Location)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origins.
func cors(origins []string) func(http.Handler) http.Handler {
	allowed := lo.SliceToMap(origins, func(o string) (string, struct{}) { return o, struct{}{} })
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one line per request through the request-scoped logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, dur time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("req_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("dur", dur).
		Msg("request")
})

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"error":%q}`+"\n", code)
}

// writeDomainError maps sentinel errors onto status codes; anything else
// is logged and reported as a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrNoTarget):
		writeError(w, http.StatusConflict, "no_target")
	case errors.Is(err, game.ErrAlreadyWon):
		writeError(w, http.StatusConflict, "already_won")
	case errors.Is(err, game.ErrHintsExhausted):
		writeError(w, http.StatusConflict, "hints_exhausted")
	case errors.Is(err, catalog.ErrDuplicateDate):
		writeError(w, http.StatusConflict, "duplicate_date")
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, catalog.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date")
	case errors.Is(err, color.ErrInvalidChannel):
		writeError(w, http.StatusBadRequest, "invalid_channel")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// decode reads a JSON body into v, reporting bad_json on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}

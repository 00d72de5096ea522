// internal/httpserver/auth.go
//
// Admin authentication.
// A single operator password (bcrypt hash, or plain text hashed at
// startup) is exchanged for an HS256 JWT carried in an HttpOnly cookie
// or an Authorization: Bearer header.

package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/colordle/apps/go-server/internal/config"
)

const (
	adminCookieName = "colordle_admin"
	adminRole       = "admin"
)

type adminAuth struct {
	hash       []byte // nil when admin is disabled
	secret     []byte
	ttl        time.Duration
	production bool
	now        func() time.Time
}

func newAdminAuth(cfg config.Config) (*adminAuth, error) {
	a := &adminAuth{
		secret:     []byte(cfg.JWTSecret),
		ttl:        cfg.AdminTokenTTL,
		production: cfg.Production,
		now:        time.Now,
	}
	if a.ttl <= 0 {
		a.ttl = 12 * time.Hour
	}
	switch {
	case cfg.AdminPasswordHash != "":
		if _, err := bcrypt.Cost([]byte(cfg.AdminPasswordHash)); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH: %w", err)
		}
		a.hash = []byte(cfg.AdminPasswordHash)
	case cfg.AdminPassword != "":
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		a.hash = h
	}
	return a, nil
}

func (a *adminAuth) enabled() bool { return a.hash != nil }

// checkPassword is a bcrypt verifier.
func (a *adminAuth) checkPassword(pw string) bool {
	return a.enabled() && bcrypt.CompareHashAndPassword(a.hash, []byte(pw)) == nil
}

// sign creates an admin token and its expiry.
func (a *adminAuth) sign() (string, time.Time, error) {
	now := a.now()
	exp := now.Add(a.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  adminRole,
		"role": adminRole,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	ss, err := t.SignedString(a.secret)
	return ss, exp, err
}

// verify parses tok and reports whether it is a live admin token.
func (a *adminAuth) verify(tok string) bool {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !t.Valid {
		return false
	}
	role, _ := claims["role"].(string)
	return role == adminRole
}

func (a *adminAuth) setCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.production,
		SameSite: sameSite(a.production),
		Expires:  exp,
	})
}

func (a *adminAuth) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   a.production,
		SameSite: sameSite(a.production),
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or admin cookie.
func bearerOrCookie(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie(adminCookieName); err == nil {
		return c.Value
	}
	return ""
}

type ctxAdminKey struct{}

// requireAdmin enforces a valid admin JWT.
func (a *adminAuth) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" || !a.verify(tok) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), ctxAdminKey{}, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isAdmin reports whether requireAdmin accepted the request.
func isAdmin(r *http.Request) bool {
	ok, _ := r.Context().Value(ctxAdminKey{}).(bool)
	return ok
}

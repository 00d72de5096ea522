package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	lim        *rate.Limiter
	lastAccess time.Time
}

// ipLimiter hands out one token bucket per client IP. A non-positive
// rps disables limiting.
type ipLimiter struct {
	rps   int
	burst int

	mu       sync.RWMutex
	limiters map[string]*limiterEntry
}

func newIPLimiter(rps, burst int) *ipLimiter {
	if burst <= 0 {
		burst = max(rps, 1)
	}
	return &ipLimiter{rps: rps, burst: burst, limiters: make(map[string]*limiterEntry)}
}

func (l *ipLimiter) get(key string) *rate.Limiter {
	l.mu.RLock()
	e, ok := l.limiters[key]
	l.mu.RUnlock()
	if ok {
		l.mu.Lock()
		e.lastAccess = time.Now()
		l.mu.Unlock()
		return e.lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok = l.limiters[key]; ok {
		e.lastAccess = time.Now()
		return e.lim
	}
	e = &limiterEntry{
		lim:        rate.NewLimiter(rate.Every(time.Second/time.Duration(l.rps)), l.burst),
		lastAccess: time.Now(),
	}
	l.limiters[key] = e
	return e.lim
}

// cleanup drops limiters idle since cutoff and returns how many went.
func (l *ipLimiter) cleanup(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, e := range l.limiters {
		if e.lastAccess.Before(cutoff) {
			delete(l.limiters, k)
			n++
		}
	}
	return n
}

func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	if l.rps <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.get(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port RealIP may leave on RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

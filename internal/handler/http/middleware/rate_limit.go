package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/response"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SessionRateLimiter keeps one token bucket per console session.
type SessionRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	r        rate.Limit
	b        int
	now      func() time.Time
}

func NewSessionRateLimiter(r rate.Limit, b int) *SessionRateLimiter {
	return &SessionRateLimiter{
		visitors: make(map[string]*visitor),
		r:        r,
		b:        b,
		now:      time.Now,
	}
}

func (l *SessionRateLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.r, l.b)}
		l.visitors[key] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Sweep forgets sessions not seen within idle.
func (l *SessionRateLimiter) Sweep(idle time.Duration) int {
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Handler rejects requests of a session that exceeded its rate. It must run
// after Session.
func (l *SessionRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := SessionID(r.Context())
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !l.GetLimiter(sessionID).Allow() {
			response.TooManyRequests(w, "Too many lookups, please wait a moment")
			return
		}
		next.ServeHTTP(w, r)
	})
}

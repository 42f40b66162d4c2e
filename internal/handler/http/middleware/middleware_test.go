package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/pkg/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newSessionRouter(svc session.Service, seen *string) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verify(svc.JWTAuth(), session.TokenFromCookie))
	r.Use(Session(svc))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		*seen = SessionID(r.Context())
	})
	return r
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestSession_StartsNewSession(t *testing.T) {
	svc := session.NewJWTService("secret", time.Hour, false)
	var seen string
	h := newSessionRouter(svc, &seen)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	c := sessionCookie(rec)
	require.NotNil(t, c)
	id, _, err := svc.Validate(c.Value)
	require.NoError(t, err)
	assert.Equal(t, seen, id)
}

func TestSession_ReusesValidSession(t *testing.T) {
	svc := session.NewJWTService("secret", time.Hour, false)
	token, _, err := svc.Issue("existing")
	require.NoError(t, err)
	var seen string
	h := newSessionRouter(svc, &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "existing", seen)
	assert.Nil(t, sessionCookie(rec), "a fresh token is not renewed")
}

func TestSession_RenewsAgingToken(t *testing.T) {
	old := session.NewJWTService("secret", 10*time.Minute, false)
	svc := session.NewJWTService("secret", time.Hour, false)
	token, _, err := old.Issue("existing")
	require.NoError(t, err)
	var seen string
	h := newSessionRouter(svc, &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "existing", seen)
	require.NotNil(t, sessionCookie(rec))
}

func TestSession_ReplacesForgedToken(t *testing.T) {
	forger := session.NewJWTService("other", time.Hour, false)
	svc := session.NewJWTService("secret", time.Hour, false)
	token, _, err := forger.Issue("victim")
	require.NoError(t, err)
	var seen string
	h := newSessionRouter(svc, &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEqual(t, "victim", seen)
	assert.NotEmpty(t, seen)
	assert.NotNil(t, sessionCookie(rec))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chiMiddleware.GetReqID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", seen)
}

func TestSessionRateLimiter(t *testing.T) {
	l := NewSessionRateLimiter(rate.Every(time.Hour), 2)
	h := l.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(sessionID string) int {
		req := httptest.NewRequest(http.MethodPost, "/me/lookup", nil)
		req = req.WithContext(WithSessionID(req.Context(), sessionID))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("a"))
	assert.Equal(t, http.StatusNoContent, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusNoContent, call("b"), "buckets are per session")
}

func TestSessionRateLimiter_Sweep(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	l := NewSessionRateLimiter(rate.Limit(1), 1)
	l.now = func() time.Time { return now }

	l.GetLimiter("old")
	now = now.Add(time.Hour)
	l.GetLimiter("new")

	assert.Equal(t, 1, l.Sweep(30*time.Minute))
	assert.Equal(t, 0, l.Sweep(30*time.Minute))
}

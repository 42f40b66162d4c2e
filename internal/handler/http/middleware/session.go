package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/session"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

type sessionKey struct{}

// SessionID returns the console session of the request, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// WithSessionID stores a session ID in ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// Session must run after jwtauth.Verify. A missing, expired or foreign token
// starts a new session; a token past half its lifetime is renewed.
func Session(svc session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			var (
				sessionID string
				expiresAt time.Time
			)
			token, _, err := jwtauth.FromContext(r.Context())
			if err == nil {
				sessionID, expiresAt, err = session.FromToken(token)
			}
			if err != nil || sessionID == "" {
				sessionID = uuid.NewString()
				expiresAt = time.Time{}
			}

			if time.Until(expiresAt) < svc.TTL()/2 {
				tokenString, exp, err := svc.Issue(sessionID)
				if err != nil {
					slog.Error("failed to issue session token", "error", err)
					response.InternalServerError(w, "Failed to start session")
					return
				}
				http.SetCookie(w, svc.Cookie(tokenString, exp))
			}

			httplog.SetAttrs(r.Context(), slog.String("session_id", sessionID))
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		}
		return http.HandlerFunc(hfn)
	}
}

package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "console_session"

const tokenType = "session"

var ErrInvalidSession = errors.New("invalid session token")

type Service interface {
	Issue(sessionID string) (token string, expiresAt time.Time, err error)
	Validate(tokenString string) (sessionID string, expiresAt time.Time, err error)
	Cookie(token string, expiresAt time.Time) *http.Cookie
	JWTAuth() *jwtauth.JWTAuth
	TTL() time.Duration
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
	ttl       time.Duration
	secure    bool
}

// NewJWTService signs session tokens with HS256. ttl is the lifetime of a
// token; secure marks the cookie as HTTPS only.
func NewJWTService(secretKey string, ttl time.Duration, secure bool) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		ttl:       ttl,
		secure:    secure,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) TTL() time.Duration {
	return j.ttl
}

func (j *JWTService) Issue(sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.ttl)

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		jwt.SubjectKey:    sessionID,
		jwt.IssuedAtKey:   now.Unix(),
		jwt.ExpirationKey: expiresAt.Unix(),
		"type":            tokenType,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, time.Unix(expiresAt.Unix(), 0), nil
}

// Validate verifies the signature and expiry of a session token and returns
// the session ID it carries.
func (j *JWTService) Validate(tokenString string) (string, time.Time, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", time.Time{}, err
	}
	return FromToken(token)
}

// FromToken extracts the session ID from an already verified token.
func FromToken(token jwt.Token) (string, time.Time, error) {
	if token == nil {
		return "", time.Time{}, ErrInvalidSession
	}
	typ, ok := token.Get("type")
	if !ok || typ != tokenType {
		return "", time.Time{}, ErrInvalidSession
	}
	if token.Subject() == "" {
		return "", time.Time{}, ErrInvalidSession
	}
	return token.Subject(), token.Expiration(), nil
}

// TokenFromCookie finds the session token for jwtauth.Verify.
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (j *JWTService) Cookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

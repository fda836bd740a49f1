package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bookworm/internal/models"
	"bookworm/internal/repository"
)

// Two weeks, the usual cookie-session default.
const defaultSessionTTL = 14 * 24 * time.Hour

// SessionService owns the session rows and the signed cookie values
// that reference them. The cookie carries an HS256 token whose subject
// is the session row's primary key; only cookies signed with the
// configured secret resolve to a session.
type SessionService struct {
	sessions repository.Sessions
	secret   []byte
	ttl      time.Duration
}

func NewSessionService(sessions repository.Sessions, cfg Config) *SessionService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{
		sessions: sessions,
		secret:   []byte(cfg.SessionSecret),
		ttl:      ttl,
	}
}

var _ Sessions = (*SessionService)(nil)

// Begin creates a fresh anonymous session and returns it with the
// signed cookie value that will resume it.
func (s *SessionService) Begin(ctx context.Context) (*models.Session, string, error) {
	now := time.Now().UTC()
	sess := models.Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, "", err
	}

	value, err := s.signCookie(sess.Token, now)
	if err != nil {
		return nil, "", err
	}
	return &sess, value, nil
}

// Resume resolves a cookie value back to its session row. A cookie
// that is unparsable, forged, unknown, or points at an expired row
// resolves to (nil, nil): the caller starts over with Begin. Errors
// are reserved for store failures.
func (s *SessionService) Resume(ctx context.Context, cookieValue string) (*models.Session, error) {
	token, err := s.parseCookie(cookieValue)
	if err != nil {
		return nil, nil
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil || !sess.ExpiresAt.After(time.Now().UTC()) {
		return nil, nil
	}
	return sess, nil
}

// Bind marks the session authenticated as userID.
func (s *SessionService) Bind(ctx context.Context, token string, userID int) error {
	return s.sessions.BindUser(ctx, token, userID)
}

// Destroy deletes the session row. The cookie it signed becomes
// worthless immediately.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// PurgeExpired removes sessions past their expiry.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

// cookieClaims keeps the session token in the registered Subject claim.
type cookieClaims struct {
	jwt.RegisteredClaims
}

// helper: sign a cookie value for a session token
func (s *SessionService) signCookie(token string, now time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   token,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return t.SignedString(s.secret)
}

// helper: verify a cookie value and extract the session token
func (s *SessionService) parseCookie(value string) (string, error) {
	t, err := jwt.ParseWithClaims(value, &cookieClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := t.Claims.(*cookieClaims)
	if !ok || !t.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid session cookie")
	}
	return claims.Subject, nil
}

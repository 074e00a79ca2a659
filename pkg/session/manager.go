// Package session persists the one piece of client-visible state the gateway
// owns: the opaque user identifier returned by the backend login endpoint.
// The identifier lives in a signed cookie and an accompanying Redis entry;
// its only interface is issue (write), read, and clear.
package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/viannadoces/doceria-web/pkg/config"
	redisclient "github.com/viannadoces/doceria-web/pkg/redis"
)

// Session identifies an authenticated browser.
type Session struct {
	// ID keys the Redis registration (the JWT jti).
	ID string
	// UserID is the backend-issued identifier, sent as X-User-Id on every
	// authenticated backend call.
	UserID string
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager issues, reads, and clears browser sessions.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	cfg   config.SessionConfig
	now   func() time.Time
}

// Reader exposes the read-only surface needed by middleware and controllers.
type Reader interface {
	Read(r *http.Request) *Session
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL() <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: client, keyer: client, cfg: cfg, now: time.Now}, nil
}

// Issue registers a new session for userID and sets the cookie on w. The
// identifier is stored exactly as received from the backend.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, userID string) (*Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	sessionID := uuid.NewString()
	token, err := mintToken(m.cfg, m.now(), sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(ctx, m.keyer.SessionKey(sessionID), userID, m.cfg.TTL()); err != nil {
		return nil, fmt.Errorf("registering session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL().Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return &Session{ID: sessionID, UserID: userID}, nil
}

// Read resolves the session carried by r, or nil for anonymous requests.
// A malformed or revoked cookie is treated as absent, never as an error.
func (m *Manager) Read(r *http.Request) *Session {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := parseToken(m.cfg, cookie.Value)
	if err != nil || claims.ID == "" || claims.Subject == "" {
		return nil
	}
	if _, err := m.store.Get(r.Context(), m.keyer.SessionKey(claims.ID)); err != nil {
		return nil
	}
	return &Session{ID: claims.ID, UserID: claims.Subject}
}

// Clear revokes the session carried by r and expires the cookie on w.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := parseTokenAllowExpired(m.cfg, cookie.Value)
	if err != nil || claims.ID == "" {
		return nil
	}
	return m.store.Del(ctx, m.keyer.SessionKey(claims.ID))
}

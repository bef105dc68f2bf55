// Package session holds the operator's session: the remote API access token plus the
// cached display attributes, persisted on the browser side with a fixed expiry.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const DefaultTTL = 48 * time.Hour

// ErrNoSession is returned by stores when the request carries no (or an expired) session.
var ErrNoSession = errors.New("no session")

type Session struct {
	Token       string    `json:"token"`
	Username    string    `json:"username"`
	Permissions []string  `json:"permissions"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// New creates a session valid for ttl from now. Permissions are de-duplicated,
// keeping the first occurrence order.
func New(token, username string, permissions []string, now time.Time, ttl time.Duration) *Session {
	seen := make(map[string]bool, len(permissions))
	perms := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		perms = append(perms, p)
	}

	return &Session{
		Token:       token,
		Username:    username,
		Permissions: perms,
		ExpiresAt:   now.Add(ttl).UTC().Truncate(time.Second),
	}
}

// Expired reports whether the session expiry has passed. A zero expiry never expires
// on the server side; the browser enforces the cookie lifetime.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) HasPermission(permission string) bool {
	for _, p := range s.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Store is the only read/write access point of the session: Save at login,
// Clear at logout, Load before every protected page.
type Store interface {
	Load(r *http.Request) (*Session, error)
	Save(w http.ResponseWriter, r *http.Request, s *Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// ContextProvider hands the request scoped session token to the remote API client.
type ContextProvider struct{}

func (ContextProvider) Token(ctx context.Context) (string, bool) {
	s, ok := FromContext(ctx)
	if !ok || s.Token == "" {
		return "", false
	}
	return s.Token, true
}

package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	CookieAccessToken = "access_token"
	CookieUsername    = "username"
	CookiePermissions = "permissions"
	CookieExpiresAt   = "session_expires"
)

var _ Store = (*CookieStore)(nil)

// CookieStore keeps the whole session in browser cookies; nothing is held server side.
type CookieStore struct {
	secure bool
	now    func() time.Time
}

func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{
		secure: secure,
		now:    time.Now,
	}
}

func (cs *CookieStore) Load(r *http.Request) (*Session, error) {
	tokenCookie, err := r.Cookie(CookieAccessToken)
	if err != nil || tokenCookie.Value == "" {
		return nil, ErrNoSession
	}

	s := &Session{Token: tokenCookie.Value}

	if c, err := r.Cookie(CookieUsername); err == nil && c.Value != "" {
		username, err := base64.RawURLEncoding.DecodeString(c.Value)
		if err != nil {
			log.Warnf("session cookie store, decode username: %s", err)
		} else {
			s.Username = string(username)
		}
	}

	if c, err := r.Cookie(CookiePermissions); err == nil && c.Value != "" {
		perms, err := decodePermissions(c.Value)
		if err != nil {
			// display attribute only, the token is still usable
			log.Warnf("session cookie store, decode permissions: %s", err)
		} else {
			s.Permissions = perms
		}
	}

	if c, err := r.Cookie(CookieExpiresAt); err == nil {
		unix, err := strconv.ParseInt(c.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse session expiry: %w", err)
		}
		s.ExpiresAt = time.Unix(unix, 0).UTC()
	}

	if s.Expired(cs.now()) {
		return nil, ErrNoSession
	}

	return s, nil
}

func (cs *CookieStore) Save(w http.ResponseWriter, _ *http.Request, s *Session) error {
	if s == nil || s.Token == "" {
		return errors.New("cannot save session without token")
	}

	perms, err := encodePermissions(s.Permissions)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}

	maxAge := int(s.ExpiresAt.Sub(cs.now()).Seconds())
	if maxAge <= 0 {
		return errors.New("cannot save an expired session")
	}

	for name, value := range map[string]string{
		CookieAccessToken: s.Token,
		CookieUsername:    base64.RawURLEncoding.EncodeToString([]byte(s.Username)),
		CookiePermissions: perms,
		CookieExpiresAt:   strconv.FormatInt(s.ExpiresAt.Unix(), 10),
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Expires:  s.ExpiresAt,
			MaxAge:   maxAge,
			HttpOnly: true,
			Secure:   cs.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return nil
}

func (cs *CookieStore) Clear(w http.ResponseWriter, _ *http.Request) error {
	for _, name := range []string{CookieAccessToken, CookieUsername, CookiePermissions, CookieExpiresAt} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cs.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return nil
}

// cookie values cannot carry quotes, so the JSON list travels base64 encoded, as
// does the username
func encodePermissions(perms []string) (string, error) {
	if perms == nil {
		perms = []string{}
	}
	b, err := json.Marshal(perms)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func decodePermissions(value string) ([]string, error) {
	b, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, err
	}
	var perms []string
	if err := json.Unmarshal(b, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

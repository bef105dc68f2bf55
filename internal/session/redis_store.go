package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/odensebartech/dashboard/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	CookieSessionID  = "bartech_session"
	sessionKeyPrefix = "bartech-dashboard-session||"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps only an opaque session id in the browser, the session record
// lives in redis and expires together with the cookie.
type RedisStore struct {
	redisClient *redis.Client
	secure      bool
	now         func() time.Time
	// ability to inject random string generator func for session ids (for unit testing)
	RandStringFunc func(s int) (string, error)
}

func NewRedisStore(redisClient *redis.Client, secure bool) *RedisStore {
	return &RedisStore{
		redisClient:    redisClient,
		secure:         secure,
		now:            time.Now,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (rs *RedisStore) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(CookieSessionID)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}

	cmd := rs.redisClient.Get(r.Context(), sessionKeyPrefix+c.Value)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	s := &Session{}
	if err := json.Unmarshal([]byte(cmd.Val()), s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	if s.Token == "" || s.Expired(rs.now()) {
		return nil, ErrNoSession
	}

	return s, nil
}

func (rs *RedisStore) Save(w http.ResponseWriter, r *http.Request, s *Session) error {
	if s == nil || s.Token == "" {
		return errors.New("cannot save session without token")
	}

	ttl := s.ExpiresAt.Sub(rs.now())
	if ttl <= 0 {
		return errors.New("cannot save an expired session")
	}

	// a previous session of this browser is replaced, not left behind
	if c, err := r.Cookie(CookieSessionID); err == nil && c.Value != "" {
		if err := rs.redisClient.Del(r.Context(), sessionKeyPrefix+c.Value).Err(); err != nil {
			log.Warnf("redis session store, remove previous session: %s", err)
		}
	}

	sessionID, err := rs.RandStringFunc(32)
	if err != nil {
		return fmt.Errorf("generate session id: %w", err)
	}

	sessionBytes, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := rs.redisClient.Set(r.Context(), sessionKeyPrefix+sessionID, sessionBytes, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieSessionID,
		Value:    sessionID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   rs.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (rs *RedisStore) Clear(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieSessionID,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   rs.secure,
		SameSite: http.SameSiteLaxMode,
	})

	c, err := r.Cookie(CookieSessionID)
	if err != nil || c.Value == "" {
		return nil
	}

	if err := rs.redisClient.Del(r.Context(), sessionKeyPrefix+c.Value).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

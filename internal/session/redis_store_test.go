package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, now time.Time) (*RedisStore, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	t.Cleanup(func() {
		_ = db.Close()
	})

	store := NewRedisStore(db, false)
	store.now = func() time.Time { return now }
	store.RandStringFunc = func(int) (string, error) {
		return "sid-1", nil
	}
	return store, mock
}

func TestRedisStore_SaveLoadClear(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newTestRedisStore(t, now)

	s := New("remote-token", "ana", []string{"recipes:read"}, now, DefaultTTL)
	sessionBytes, err := json.Marshal(s)
	require.NoError(t, err)

	key := sessionKeyPrefix + "sid-1"
	mock.ExpectSet(key, sessionBytes, DefaultTTL).SetVal("OK")

	rr := httptest.NewRecorder()
	require.NoError(t, store.Save(rr, httptest.NewRequest("POST", "/login", nil), s))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieSessionID, cookies[0].Name)
	assert.Equal(t, "sid-1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(cookies[0])

	mock.ExpectGet(key).SetVal(string(sessionBytes))
	loaded, err := store.Load(req)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	mock.ExpectDel(key).SetVal(1)
	rr = httptest.NewRecorder()
	require.NoError(t, store.Clear(rr, req))
	assert.Equal(t, -1, rr.Result().Cookies()[0].MaxAge)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SaveReplacesPrevious(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newTestRedisStore(t, now)

	s := New("tkn", "ana", nil, now, time.Hour)
	sessionBytes, err := json.Marshal(s)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/login", nil)
	req.AddCookie(&http.Cookie{Name: CookieSessionID, Value: "old-sid"})

	mock.ExpectDel(sessionKeyPrefix + "old-sid").SetVal(1)
	mock.ExpectSet(sessionKeyPrefix+"sid-1", sessionBytes, time.Hour).SetVal("OK")

	require.NoError(t, store.Save(httptest.NewRecorder(), req, s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_LoadMissing(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newTestRedisStore(t, now)

	// no cookie, no redis call
	_, err := store.Load(httptest.NewRequest("GET", "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieSessionID, Value: "gone"})
	mock.ExpectGet(sessionKeyPrefix + "gone").RedisNil()
	_, err = store.Load(req)
	assert.ErrorIs(t, err, ErrNoSession)

	mock.ExpectGet(sessionKeyPrefix + "gone").SetErr(errors.New("connection refused"))
	_, err = store.Load(req)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)

	expired, err := json.Marshal(New("tkn", "ana", nil, now.Add(-72*time.Hour), DefaultTTL))
	require.NoError(t, err)
	mock.ExpectGet(sessionKeyPrefix + "gone").SetVal(string(expired))
	_, err = store.Load(req)
	assert.ErrorIs(t, err, ErrNoSession)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SaveFailures(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newTestRedisStore(t, now)

	assert.Error(t, store.Save(httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil), &Session{}))

	s := New("tkn", "ana", nil, now, time.Hour)
	sessionBytes, err := json.Marshal(s)
	require.NoError(t, err)
	mock.ExpectSet(sessionKeyPrefix+"sid-1", sessionBytes, time.Hour).SetErr(errors.New("OOM"))

	rr := httptest.NewRecorder()
	assert.Error(t, store.Save(rr, httptest.NewRequest("POST", "/", nil), s))
	// no cookie is handed out for a session redis did not keep
	assert.Empty(t, rr.Result().Cookies())

	store.RandStringFunc = func(int) (string, error) {
		return "", errors.New("no entropy")
	}
	assert.Error(t, store.Save(httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil), s))
}

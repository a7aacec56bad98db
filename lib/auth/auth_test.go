package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGate(t *testing.T) {
	g := NewGate("hunter2")

	assert.True(t, g.Check("hunter2"))
	assert.False(t, g.Check("hunter"))
	assert.False(t, g.Check("hunter22"))
	assert.False(t, g.Check("Hunter2"))
	assert.False(t, g.Check(""))
}

func TestStore(t *testing.T) {
	s := NewStore()

	sess := s.Login()
	assert.NotEmpty(t, sess.ID)
	assert.True(t, sess.Authenticated)

	got, ok := s.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess, got)

	other := s.Login()
	assert.NotEqual(t, sess.ID, other.ID)
	assert.Equal(t, 2, s.Len())

	s.Delete(sess.ID)
	_, ok = s.Get(sess.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStoreConcurrentUse(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := s.Login()
			_, ok := s.Get(sess.ID)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

func TestMiddlewareAttachesSession(t *testing.T) {
	store := NewStore()
	var seen Session
	h := Middleware(store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		seen, ok = FromContext(r.Context())
		assert.True(t, ok)
	}))

	// No cookie: an anonymous session, nothing stored.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, Session{}, seen)

	// A known cookie resolves to its session.
	sess := store.Login()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.ID})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, sess, seen)

	// An unknown cookie is cleared and treated as anonymous.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
	assert.False(t, seen.Authenticated)
	assert.Equal(t, 1, store.Len())
}

func TestMiddlewareDoesNotStoreAnonymousVisitors(t *testing.T) {
	store := NewStore()
	h := Middleware(store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 1000; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		if i%2 == 1 {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: "unknown"})
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Zero(t, store.Len())
}

func TestRequireAuth(t *testing.T) {
	store := NewStore()
	protected := Middleware(store, testLogger())(RequireAuth("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	sess := store.Login()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.ID})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

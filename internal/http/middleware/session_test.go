package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-app/keepsake/internal/db"
)

type fakeRevocations struct {
	revoked map[string]bool
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{revoked: make(map[string]bool)}
}

func (f *fakeRevocations) Revoke(_ context.Context, token string, _ time.Duration) {
	f.revoked[token] = true
}

func (f *fakeRevocations) IsRevoked(_ context.Context, token string) bool {
	return f.revoked[token]
}

// issueToken runs Issue against a throwaway context and returns the cookie value.
func issueToken(t *testing.T, m *SessionManager, userID int) string {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	require.NoError(t, m.Issue(c, userID))
	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookie {
			return ck.Value
		}
	}
	t.Fatal("no session cookie issued")
	return ""
}

func newSessionRouter(m *SessionManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.LoadUser())
	r.GET("/whoami", func(c *gin.Context) {
		if u, ok := GetCurrentUser(c); ok {
			c.String(http.StatusOK, u.Email)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/guarded", m.RequireUser(), func(c *gin.Context) {
		c.String(http.StatusOK, "in")
	})
	return r
}

func whoami(r *gin.Engine, token string) string {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Body.String()
}

func TestIssueAndLoadUser(t *testing.T) {
	store := db.NewMemStore()
	id, err := store.CreateUser("alice", "alice@example.com", "hash")
	require.NoError(t, err)

	m := NewSessionManager("secret", store, nil)
	r := newSessionRouter(m)

	token := issueToken(t, m, id)
	assert.Equal(t, "alice@example.com", whoami(r, token))
}

func TestLoadUserIgnoresBadTokens(t *testing.T) {
	store := db.NewMemStore()
	m := NewSessionManager("secret", store, nil)
	r := newSessionRouter(m)

	assert.Equal(t, "anonymous", whoami(r, ""))
	assert.Equal(t, "anonymous", whoami(r, "garbage"))

	// token signed with a different secret
	other := NewSessionManager("other-secret", store, nil)
	id, _ := store.CreateUser("alice", "alice@example.com", "hash")
	forged := issueToken(t, other, id)
	assert.Equal(t, "anonymous", whoami(r, forged))
}

func TestLoadUserIgnoresUnknownUser(t *testing.T) {
	store := db.NewMemStore()
	m := NewSessionManager("secret", store, nil)
	r := newSessionRouter(m)

	token := issueToken(t, m, 42)
	assert.Equal(t, "anonymous", whoami(r, token))
}

func TestRevokedTokenIsAnonymous(t *testing.T) {
	store := db.NewMemStore()
	id, _ := store.CreateUser("alice", "alice@example.com", "hash")

	revocations := newFakeRevocations()
	m := NewSessionManager("secret", store, revocations)
	r := newSessionRouter(m)

	token := issueToken(t, m, id)
	assert.Equal(t, "alice@example.com", whoami(r, token))

	revocations.Revoke(context.Background(), token, time.Hour)
	assert.Equal(t, "anonymous", whoami(r, token))
}

func TestClearRevokesToken(t *testing.T) {
	store := db.NewMemStore()
	id, _ := store.CreateUser("alice", "alice@example.com", "hash")

	revocations := newFakeRevocations()
	m := NewSessionManager("secret", store, revocations)

	token := issueToken(t, m, id)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/logout", nil)
	c.Request.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	m.Clear(c)

	assert.True(t, revocations.IsRevoked(context.Background(), token))

	// clearing again without a cookie is harmless
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/logout", nil)
	m.Clear(c)
}

func TestRequireUserRedirects(t *testing.T) {
	store := db.NewMemStore()
	m := NewSessionManager("secret", store, nil)
	r := newSessionRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))

	// a second hash of the same input differs (per-hash salt)
	hash2, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

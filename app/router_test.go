package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"faithconnect/community-api/db"
	"faithconnect/community-api/internal"
	"faithconnect/community-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mailbox struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *mailbox) SendVerification(_ context.Context, to, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[to] = token
	return nil
}

func (m *mailbox) token(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tokens[to]
}

type server struct {
	router *gin.Engine
	mail   *mailbox
}

func newServer(t *testing.T) *server {
	t.Helper()

	conn, err := db.NewMemory()
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})

	tokens, err := security.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	mail := &mailbox{tokens: map[string]string{}}

	d, err := internal.NewDeps(conn, internal.DepsOptions{
		Argon:           security.NewFast(),
		Tokens:          tokens,
		Mailer:          mail,
		VerificationTTL: time.Hour,
	})
	require.NoError(t, err)

	return &server{
		router: New(context.Background(), d, Options{CORSOrigins: []string{"http://localhost:5173"}}),
		mail:   mail,
	}
}

func (s *server) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func register(t *testing.T, s *server, email string) {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ann", "email": email, "password": "pw123", "country": "KE",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func login(t *testing.T, s *server, email string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "pw123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return decode[map[string]any](t, w)["token"].(string)
}

func TestCommunityFlow(t *testing.T) {
	s := newServer(t)

	register(t, s, "ann@x.io")

	tok := s.mail.token("ann@x.io")
	require.Len(t, tok, 64)

	w := s.do(t, http.MethodGet, "/api/auth/verify/"+tok, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Email verified!")

	jwt := login(t, s, "ann@x.io")

	w = s.do(t, http.MethodPost, "/api/posts", jwt, gin.H{"content": "Hello"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[map[string]any](t, w)
	id := created["id"].(string)
	assert.Equal(t, "Ann", created["user"].(map[string]any)["name"])

	for rangeIdx := 0; rangeIdx < 2; rangeIdx++ {
		w = s.do(t, http.MethodPut, "/api/posts/like/"+id, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.EqualValues(t, 2, decode[map[string]any](t, w)["likes"])

	w = s.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	posts := decode[[]map[string]any](t, w)
	require.Len(t, posts, 1)
	assert.EqualValues(t, 2, posts[0]["likes"])
	assert.Equal(t, "Hello", posts[0]["content"])
}

func TestRegisterErrors(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "a@x.io"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please add all fields", decode[map[string]any](t, w)["error"])

	register(t, s, "a@x.io")

	w = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Other", "email": "A@X.io", "password": "pw123", "country": "KE",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decode[map[string]any](t, w)["error"])

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginRules(t *testing.T) {
	s := newServer(t)

	register(t, s, "b@x.io")

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "b@x.io", "password": "pw123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "b@x.io", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@x.io", "password": "pw123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", decode[map[string]any](t, w)["error"])
}

func TestVerifyInvalidLink(t *testing.T) {
	s := newServer(t)

	register(t, s, "c@x.io")
	tok := s.mail.token("c@x.io")

	w := s.do(t, http.MethodGet, "/api/auth/verify/bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired link")

	w = s.do(t, http.MethodGet, "/api/auth/verify/"+tok, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// single use
	w = s.do(t, http.MethodGet, "/api/auth/verify/"+tok, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfile(t *testing.T) {
	s := newServer(t)

	register(t, s, "d@x.io")
	w := s.do(t, http.MethodGet, "/api/auth/verify/"+s.mail.token("d@x.io"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	jwt := login(t, s, "d@x.io")

	w = s.do(t, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized, no token", decode[map[string]any](t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/auth/profile", jwt, nil)
	require.Equal(t, http.StatusOK, w.Code)

	me := decode[map[string]any](t, w)
	assert.Equal(t, "d@x.io", me["email"])
	assert.NotContains(t, me, "passwordHash")
	assert.NotContains(t, me, "verificationToken")

	w = s.do(t, http.MethodPut, "/api/auth/profile", jwt, gin.H{"name": "Dee", "phone": "+254700000000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	upd := decode[map[string]any](t, w)
	assert.Equal(t, "Dee", upd["name"])
	assert.Equal(t, "+254700000000", upd["phone"])
	assert.NotEmpty(t, upd["token"])

	w = s.do(t, http.MethodGet, "/api/validate", upd["token"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, me["id"], decode[map[string]any](t, w)["userID"])
}

func TestPostErrors(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/posts", "", gin.H{"content": "Hello"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPut, "/api/posts/like/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestPrayers(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/prayers", "", gin.H{"message": "Pray for rain"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	p := decode[map[string]any](t, w)
	assert.Equal(t, "Anonymous", p["name"])
	assert.EqualValues(t, 0, p["amenCount"])

	w = s.do(t, http.MethodPut, "/api/prayers/amen/"+p["id"].(string), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["amenCount"])

	w = s.do(t, http.MethodPut, "/api/prayers/amen/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/prayers", "", gin.H{"name": "Bo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/prayers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestHeartbeatAndCORS(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodHead, "/api/heartbeat", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a.io", "http://b.io"}, splitList([]string{"http://a.io, http://b.io"}))
	assert.Equal(t, []string{"http://a.io"}, splitList([]string{" http://a.io ", ""}))
	assert.Empty(t, splitList(nil))
}

func TestCheckOrigins(t *testing.T) {
	assert.ErrorIs(t, checkOrigins(nil), errNoOrigins)
	assert.Error(t, checkOrigins([]string{"localhost:5173"}))
	assert.NoError(t, checkOrigins([]string{"*"}))
	assert.NoError(t, checkOrigins([]string{"https://faithconnect.com"}))
}

func TestMakeLogger(t *testing.T) {
	assert.NoError(t, MakeLogger("debug"))
	assert.Error(t, MakeLogger("loud"))
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"faithconnect/community-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.Use(mw...)
	r.Any("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID")})
	})

	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	w := do(newEngine(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestJWTMiddleware(t *testing.T) {
	ti, err := security.NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)

	r := newEngine(NewJWTMiddleware(ti))

	tok, err := ti.Issue("user123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	w := do(r, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user123", body["userID"])
}

func TestJWTMiddlewareRejects(t *testing.T) {
	ti, err := security.NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)

	r := newEngine(NewJWTMiddleware(ti))

	for _, h := range []string{"", "Bearer", "Bearer ", "Basic abc", "Bearer not.a.token"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}

		w := do(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, h)
		assert.Contains(t, w.Body.String(), "requestID")
	}
}

func TestBodySizeLimiter(t *testing.T) {
	r := newEngine(BodySizeLimiter(8))

	w := do(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = do(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 2})
	r := newEngine(rl.Middleware())

	codes := []int{}
	for rangeIdx := 0; rangeIdx < 3; rangeIdx++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, do(r, req).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Other clients have their own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	r := newEngine(NewRateLimiter(RateLimiterConfig{}).Middleware())

	for rangeIdx := 0; rangeIdx < 10; rangeIdx++ {
		assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, TTL: time.Minute})

	now := time.Now()
	rl.limiter("10.0.0.1", now)
	rl.limiter("10.0.0.2", now.Add(2*time.Minute))

	rl.cleanup(now.Add(2 * time.Minute))

	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestTurnstile(t *testing.T) {
	var gotSecret string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotSecret = body["secret"]

		_ = json.NewEncoder(w).Encode(response{Success: body["response"] == "good"})
	}))
	defer srv.Close()

	r := newEngine(NewTurnstileMiddleware(TurnstileConfig{
		Enabled:   true,
		Secret:    "ts-secret",
		VerifyURL: srv.URL,
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.Equal(t, http.StatusBadRequest, do(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("TurnstileToken", "bad")
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("TurnstileToken", "good")
	assert.Equal(t, http.StatusOK, do(r, req).Code)
	assert.Equal(t, "ts-secret", gotSecret)
}

func TestTurnstileDisabled(t *testing.T) {
	r := newEngine(NewTurnstileMiddleware(TurnstileConfig{}))

	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodPost, "/", nil)).Code)
}

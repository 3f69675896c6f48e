package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func request(h http.Handler, method, path, ip string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, nil)
	r.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestSecurityHeaders(t *testing.T) {
	w := request(SecurityHeaders(okHandler), "GET", "/", "10.0.0.1")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestAuthRateLimit_OnlyCredentialRoutes(t *testing.T) {
	h := AuthRateLimit()(okHandler)

	for i := 0; i < authRateLimitBurst; i++ {
		require.Equal(t, http.StatusOK, request(h, "POST", "/login", "10.0.0.2").Code)
	}
	w := request(h, "POST", "/login", "10.0.0.2")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	// other clients and other routes are unaffected
	assert.Equal(t, http.StatusOK, request(h, "POST", "/login", "10.0.0.3").Code)
	for i := 0; i < authRateLimitBurst+2; i++ {
		assert.Equal(t, http.StatusOK, request(h, "GET", "/lost-pets", "10.0.0.2").Code)
	}
}

func TestIPLimiters_Sweep(t *testing.T) {
	l := newIPLimiters(rate.Limit(1), 1, time.Minute)
	l.cleanupRun = true // no background goroutine in tests

	l.get("a")
	l.get("b")
	l.entries["a"].lastUse = time.Now().Add(-2 * time.Minute)

	l.sweep(time.Now())
	_, hasA := l.entries["a"]
	_, hasB := l.entries["b"]
	assert.False(t, hasA)
	assert.True(t, hasB)
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"http://app.test"})(okHandler)

	r := httptest.NewRequest(http.MethodOptions, "/report-lost-pet", nil)
	r.Header.Set("Origin", "http://app.test")
	r.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	r = httptest.NewRequest(http.MethodGet, "/lost-pets", nil)
	r.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

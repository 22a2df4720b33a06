package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everest-platform/console/pkg/accounts"
	"github.com/everest-platform/console/server/internal/api/middleware"
	"github.com/everest-platform/console/server/internal/metrics"
	"github.com/everest-platform/console/server/internal/ratelimit"
)

type stubSessions struct {
	verify   map[string]error
	blocked  []string
	blockErr error
}

func (s *stubSessions) Authenticate(_ context.Context, username, _ string) error {
	return s.verify[username]
}

func (s *stubSessions) Create(username string) (string, error) {
	return "token-for-" + username, nil
}

func (s *stubSessions) Block(_ context.Context, claims *jwt.RegisteredClaims) error {
	if s.blockErr != nil {
		return s.blockErr
	}
	s.blocked = append(s.blocked, claims.ID)
	return nil
}

func newSessionRouter(t *testing.T, sessions *stubSessions) (*gin.Engine, *ratelimit.AttemptsStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics.Registry = prometheus.NewRegistry()
	require.NoError(t, metrics.Init())

	cfg := ratelimit.DefaultConfig()
	cfg.LoginFreeAttempts = 1
	cfg.LoginBaseTimeout = time.Minute
	attempts := ratelimit.NewAttemptsStore(cfg)
	t.Cleanup(attempts.Stop)

	h := NewSessionHandler(sessions, attempts)
	router := gin.New()
	router.POST("/v1/session", h.Login)
	router.DELETE("/v1/session", func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, &jwt.RegisteredClaims{ID: "jti-1"})
		c.Next()
	}, h.Logout)
	return router, attempts
}

func login(router *gin.Engine, body, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name        string
		user        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"unknown user", "ghost", accounts.ErrAccountNotFound, http.StatusUnauthorized, "Incorrect username or password provided"},
		{"wrong password", "alice", accounts.ErrIncorrectPassword, http.StatusUnauthorized, "Incorrect username or password provided"},
		{"disabled", "alice", accounts.ErrAccountDisabled, http.StatusForbidden, "User account is disabled"},
		{"no login capability", "alice", accounts.ErrInsufficientCapabilities, http.StatusForbidden, "User account lacks required capabilities"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newSessionRouter(t, &stubSessions{verify: map[string]error{tt.user: tt.err}})

			w := login(router, `{"username":"`+tt.user+`","password":"x"}`, "10.0.0.1:1")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMessage, decodeError(t, w).Message)
		})
	}
}

func TestLoginTimeout(t *testing.T) {
	router, attempts := newSessionRouter(t, &stubSessions{verify: map[string]error{"alice": accounts.ErrIncorrectPassword}})

	// the first failure is free, the second starts a timeout
	assert.Equal(t, http.StatusUnauthorized, login(router, `{"username":"alice","password":"x"}`, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusUnauthorized, login(router, `{"username":"alice","password":"x"}`, "10.0.0.1:1").Code)

	blocked, _ := attempts.IsInTimeout("10.0.0.1")
	require.True(t, blocked)

	w := login(router, `{"username":"bob","password":"x"}`, "10.0.0.1:1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, login(router, `{"username":"bob","password":"x"}`, "10.0.0.2:1").Code)
}

func TestLoginSuccess(t *testing.T) {
	router, attempts := newSessionRouter(t, &stubSessions{verify: map[string]error{"alice": accounts.ErrIncorrectPassword}})

	assert.Equal(t, http.StatusUnauthorized, login(router, `{"username":"alice","password":"x"}`, "10.0.0.1:1").Code)

	w := login(router, `{"username":"bob","password":"x"}`, "10.0.0.1:1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"token-for-bob"}`, w.Body.String())

	// a successful login forgets earlier failures
	assert.Equal(t, http.StatusUnauthorized, login(router, `{"username":"alice","password":"x"}`, "10.0.0.1:1").Code)
	blocked, _ := attempts.IsInTimeout("10.0.0.1")
	assert.False(t, blocked)
}

func TestLoginBadRequest(t *testing.T) {
	router, _ := newSessionRouter(t, &stubSessions{})

	assert.Equal(t, http.StatusBadRequest, login(router, `not json`, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusBadRequest, login(router, `{"username":"alice"}`, "10.0.0.1:1").Code)
}

func logout(router *gin.Engine, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/v1/session", nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogout(t *testing.T) {
	sessions := &stubSessions{}
	router, attempts := newSessionRouter(t, sessions)

	assert.Equal(t, http.StatusNoContent, logout(router, "10.0.0.1:1").Code)
	assert.Equal(t, []string{"jti-1"}, sessions.blocked)

	blocked, _ := attempts.IsInTimeout("10.0.0.1")
	assert.False(t, blocked, "the first attempt is free")

	assert.Equal(t, http.StatusNoContent, logout(router, "10.0.0.1:1").Code)
	blocked, _ = attempts.IsInTimeout("10.0.0.1")
	assert.True(t, blocked)
}

func TestLogoutStoreFailure(t *testing.T) {
	router, attempts := newSessionRouter(t, &stubSessions{blockErr: errors.New("database is locked")})

	w := logout(router, "10.0.0.3:1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to logout user", decodeError(t, w).Message)

	assert.Equal(t, http.StatusInternalServerError, logout(router, "10.0.0.3:1").Code)
	blocked, _ := attempts.IsInTimeout("10.0.0.3")
	assert.True(t, blocked)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/accounts"
	"github.com/everest-platform/console/server/internal/api/middleware"
	"github.com/everest-platform/console/server/internal/metrics"
	"github.com/everest-platform/console/server/internal/ratelimit"
)

// SessionIssuer authenticates users and issues and revokes their tokens.
// *session.Manager implements it.
type SessionIssuer interface {
	Authenticate(ctx context.Context, username, password string) error
	Create(username string) (string, error)
	Block(ctx context.Context, claims *jwt.RegisteredClaims) error
}

// SessionHandler serves login and logout.
type SessionHandler struct {
	sessions SessionIssuer
	attempts *ratelimit.AttemptsStore
}

// NewSessionHandler returns a SessionHandler. Failed logins put the client
// address in timeout through attempts.
func NewSessionHandler(sessions SessionIssuer, attempts *ratelimit.AttemptsStore) *SessionHandler {
	return &SessionHandler{sessions: sessions, attempts: attempts}
}

// Login handles POST /v1/session.
func (h *SessionHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	if blocked, remaining := h.attempts.IsInTimeout(ip); blocked {
		metrics.LoginFailures.WithLabelValues("timeout").Inc()
		c.Header("Retry-After", strconv.Itoa(int(remaining.Round(time.Second).Seconds())+1))
		respondError(c, http.StatusTooManyRequests, "rate_limit_exceeded",
			"Too many failed login attempts, try again later")
		return
	}

	var creds models.UserCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		respondInvalid(c, errors.New("invalid login request body"))
		return
	}
	if creds.Username == "" || creds.Password == "" {
		respondInvalid(c, errors.New("username and password are required"))
		return
	}

	if err := h.sessions.Authenticate(c.Request.Context(), creds.Username, creds.Password); err != nil {
		h.loginFailed(c, ip, creds.Username, err)
		return
	}
	h.attempts.CleanupVisitor(ip)
	metrics.LoginTimeouts.Set(float64(h.attempts.BlockedCount()))

	token, err := h.sessions.Create(creds.Username)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	metrics.SessionsIssued.Inc()
	middleware.GetLogger(c).Info("session created", zap.String("username", creds.Username))
	c.JSON(http.StatusOK, models.SessionToken{Token: token})
}

func (h *SessionHandler) loginFailed(c *gin.Context, ip, username string, err error) {
	h.attempts.IncreaseTimeout(ip)
	metrics.LoginTimeouts.Set(float64(h.attempts.BlockedCount()))

	l := middleware.GetLogger(c).With(zap.String("username", username))
	switch {
	case errors.Is(err, accounts.ErrAccountNotFound), errors.Is(err, accounts.ErrIncorrectPassword):
		metrics.LoginFailures.WithLabelValues("bad_credentials").Inc()
		l.Info("login failed", zap.Error(err))
		respondError(c, http.StatusUnauthorized, "unauthorized", "Incorrect username or password provided")
	case errors.Is(err, accounts.ErrAccountDisabled):
		metrics.LoginFailures.WithLabelValues("disabled").Inc()
		l.Info("login failed", zap.Error(err))
		respondError(c, http.StatusForbidden, "forbidden", "User account is disabled")
	case errors.Is(err, accounts.ErrInsufficientCapabilities):
		metrics.LoginFailures.WithLabelValues("capabilities").Inc()
		l.Info("login failed", zap.Error(err))
		respondError(c, http.StatusForbidden, "forbidden", "User account lacks required capabilities")
	default:
		metrics.LoginFailures.WithLabelValues("error").Inc()
		l.Error("login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", internalErrorMessage)
	}
}

// Logout handles DELETE /v1/session. The token of the request is revoked
// until it expires. Every logout counts as an attempt of the client address.
func (h *SessionHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication failed")
		return
	}
	h.attempts.IncreaseTimeout(c.ClientIP())
	metrics.LoginTimeouts.Set(float64(h.attempts.BlockedCount()))

	if err := h.sessions.Block(c.Request.Context(), claims); err != nil {
		middleware.GetLogger(c).Error("failed to block session token", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to logout user")
		return
	}
	c.Status(http.StatusNoContent)
}

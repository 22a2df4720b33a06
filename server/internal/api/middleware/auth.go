package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/everest-platform/console/pkg/common"
	"github.com/everest-platform/console/server/internal/logging"
)

// ContextKeyClaims stores the validated session claims.
const ContextKeyClaims = "claims"

// SessionValidator validates a raw session token and returns its user.
// *session.Manager implements it.
type SessionValidator interface {
	Validate(ctx context.Context, raw string) (string, *jwt.RegisteredClaims, error)
}

// respondAuthError answers 401 without revealing why the token was rejected.
func respondAuthError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      "unauthorized",
		"message":    "Authentication failed",
		"request_id": GetRequestID(c),
	})
}

// RequireSession authenticates requests carrying "Authorization: Bearer <jwt>".
//
// On success the user name is stored in the gin context and in the request
// context under common.UserCtxKey, where the RBAC handler reads it, and the
// token claims are stored for logout.
func RequireSession(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respondAuthError(c)
			return
		}

		user, claims, err := sessions.Validate(c.Request.Context(), raw)
		if err != nil {
			GetLogger(c).Debug("session rejected", zap.Error(err))
			respondAuthError(c)
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyClaims, claims)
		ctx := context.WithValue(c.Request.Context(), common.UserCtxKey, user) //nolint:staticcheck
		ctx = logging.WithLogger(ctx, GetLogger(c).With(zap.String(logging.FieldUser, user)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClaims returns the claims stored by RequireSession, or nil.
func GetClaims(c *gin.Context) *jwt.RegisteredClaims {
	if v, ok := c.Get(ContextKeyClaims); ok {
		if claims, ok := v.(*jwt.RegisteredClaims); ok {
			return claims
		}
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

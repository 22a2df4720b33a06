// Package handlers provides the gin handlers of the everest-server REST API.
//
// Handlers bind path parameters and JSON bodies, call the service handler
// chain and translate its errors into HTTP responses.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/rbac"
	"github.com/everest-platform/console/server/internal/api/middleware"
	"github.com/everest-platform/console/server/internal/service"
	"github.com/everest-platform/console/server/internal/session"
)

// ErrorResponse is the body of every error response.
type ErrorResponse = models.Error

const internalErrorMessage = "An internal error occurred"

// respondError sends a standardized error response.
func respondError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}

// respondInvalid answers 400 for a malformed body or parameter.
func respondInvalid(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
}

// mapErrorToResponse converts a service error to an HTTP response.
//
// Validation failures are joined with models.ErrInvalidRequest and their
// text is returned to the client, since the UI shows it verbatim.
// Unexpected errors are logged and answered with a generic message.
func mapErrorToResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, "invalid_request", stripSentinel(err, models.ErrInvalidRequest))

	case errors.Is(err, models.ErrInsufficientPermissions):
		respondError(c, http.StatusForbidden, "forbidden", models.ErrInsufficientPermissions.Error())

	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrInvalidToken),
		errors.Is(err, session.ErrTokenBlocked), errors.Is(err, service.ErrNoUser):
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication failed")

	case errors.Is(err, models.ErrNotFound), k8serrors.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, models.ErrConflict), k8serrors.IsAlreadyExists(err), k8serrors.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", stripSentinel(err, models.ErrConflict))

	case k8serrors.IsInvalid(err), k8serrors.IsBadRequest(err):
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())

	case errors.Is(err, models.ErrRateLimitExceeded):
		respondError(c, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded")

	case errors.Is(err, models.ErrServiceUnavailable), errors.Is(err, rbac.ErrPolicyNotLoaded):
		respondError(c, http.StatusServiceUnavailable, "service_unavailable", "Service temporarily unavailable")

	default:
		middleware.GetLogger(c).Error("request failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", internalErrorMessage)
	}
}

// stripSentinel returns the message of err without the text of sentinel
// when err was built with errors.Join(sentinel, ...) or wraps it with %w.
func stripSentinel(err, sentinel error) string {
	var parts []string
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if e == sentinel {
				continue
			}
			parts = append(parts, e.Error())
		}
	}
	if len(parts) == 0 {
		msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
		if msg == "" {
			return sentinel.Error()
		}
		return msg
	}
	return strings.Join(parts, "; ")
}

package models

import "errors"

// Sentinel errors shared by the handler chain, the API layer and the sdk.
// handlers.mapErrorToResponse turns them into HTTP statuses.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidToken covers malformed, expired and blocklisted session tokens.
	ErrInvalidToken = errors.New("invalid authentication token")
	// ErrInsufficientPermissions is returned when the RBAC policy denies a request.
	ErrInsufficientPermissions = errors.New("insufficient permissions for performing the operation")
	// ErrInvalidRequest is joined with every validation failure.
	ErrInvalidRequest     = errors.New("invalid request")
	ErrConflict           = errors.New("resource already exists")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrInternalError      = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Error is the body of every non-2xx API response.
type Error struct {
	// Error is the status text, for example "Bad Request".
	Error string `json:"error"`
	// Message is shown to the user as is.
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is returned by /health/live and /health/ready.
type HealthResponse struct {
	// Status is "ok" or "degraded".
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

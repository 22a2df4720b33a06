package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/server/internal/service"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestMapErrorToResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gr := schema.GroupResource{Group: "everest.percona.com", Resource: "databaseclusters"}
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "joined validation error",
			err:         errors.Join(models.ErrInvalidRequest, errors.New("database cluster ghost does not exist")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "invalid_request",
			wantMessage: "database cluster ghost does not exist",
		},
		{
			name:        "conflict",
			err:         fmt.Errorf("%w: db cluster with name 'db1' already exists in namespace 'default'", models.ErrConflict),
			wantStatus:  http.StatusConflict,
			wantCode:    "conflict",
			wantMessage: "db cluster with name 'db1' already exists in namespace 'default'",
		},
		{
			name:        "forbidden",
			err:         models.ErrInsufficientPermissions,
			wantStatus:  http.StatusForbidden,
			wantCode:    "forbidden",
			wantMessage: models.ErrInsufficientPermissions.Error(),
		},
		{
			name:       "no user",
			err:        service.ErrNoUser,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
		{
			name:       "kubernetes not found",
			err:        k8serrors.NewNotFound(gr, "db1"),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "kubernetes already exists",
			err:        k8serrors.NewAlreadyExists(gr, "db1"),
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
		},
		{
			name:       "kubernetes stale update",
			err:        k8serrors.NewConflict(gr, "db1", errors.New("object was modified")),
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
		},
		{
			name:       "rate limited",
			err:        models.ErrRateLimitExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "rate_limit_exceeded",
		},
		{
			name:        "unknown",
			err:         errors.New("etcd is on fire"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "internal_error",
			wantMessage: internalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			mapErrorToResponse(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantCode, body.Error)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Message)
			}
			assert.True(t, c.IsAborted())
		})
	}
}

func TestStripSentinel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a; b", stripSentinel(errors.Join(models.ErrInvalidRequest, errors.New("a"), errors.New("b")), models.ErrInvalidRequest))
	assert.Equal(t, models.ErrInvalidRequest.Error(), stripSentinel(models.ErrInvalidRequest, models.ErrInvalidRequest))
	assert.Equal(t, "bad name", stripSentinel(fmt.Errorf("bad name: %w", models.ErrInvalidRequest), models.ErrInvalidRequest))
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everest-platform/console/pkg/common"
)

type stubValidator map[string]string

func (s stubValidator) Validate(_ context.Context, raw string) (string, *jwt.RegisteredClaims, error) {
	user, ok := s[raw]
	if !ok {
		return "", nil, errors.New("bad token")
	}
	return user, &jwt.RegisteredClaims{ID: "jti-" + user}, nil
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "valid", header: "Bearer good", wantStatus: http.StatusOK, wantUser: "alice"},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK, wantUser: "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxUser, ginUser string
			var claims *jwt.RegisteredClaims

			router := gin.New()
			router.Use(RequireSession(stubValidator{"good": "alice"}))
			router.GET("/me", func(c *gin.Context) {
				ginUser = GetUser(c)
				ctxUser, _ = c.Request.Context().Value(common.UserCtxKey).(string)
				claims = GetClaims(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, w.Body.String(), "Authentication failed")
				return
			}
			assert.Equal(t, tt.wantUser, ginUser)
			assert.Equal(t, tt.wantUser, ctxUser)
			require.NotNil(t, claims)
			assert.Equal(t, "jti-alice", claims.ID)
		})
	}
}

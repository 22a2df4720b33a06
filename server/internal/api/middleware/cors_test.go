package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		allow       []string
		origin      string
		method      string
		wantStatus  int
		wantAllowed string
	}{
		{name: "allowed origin", allow: []string{"https://ui.example.com"}, origin: "https://ui.example.com", method: http.MethodGet, wantStatus: http.StatusOK, wantAllowed: "https://ui.example.com"},
		{name: "other origin", allow: []string{"https://ui.example.com"}, origin: "https://evil.example.com", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "wildcard", allow: []string{"*"}, origin: "https://any.example.com", method: http.MethodGet, wantStatus: http.StatusOK, wantAllowed: "https://any.example.com"},
		{name: "preflight", allow: []string{"*"}, origin: "https://any.example.com", method: http.MethodOptions, wantStatus: http.StatusNoContent, wantAllowed: "https://any.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.allow))
			router.GET("/v1/version", func(c *gin.Context) { c.Status(http.StatusOK) })
			router.OPTIONS("/v1/version", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/v1/version", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantAllowed != "" {
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			}
		})
	}
}

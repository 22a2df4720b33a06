package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/everest-platform/console/server/internal/logging"
)

func observedRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(level)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	return router, logs
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status  int
		level   zapcore.Level
		message string
	}{
		{http.StatusOK, zapcore.InfoLevel, "request completed"},
		{http.StatusNotFound, zapcore.WarnLevel, "request completed with client error"},
		{http.StatusConflict, zapcore.WarnLevel, "request completed with client error"},
		{http.StatusServiceUnavailable, zapcore.ErrorLevel, "request completed with server error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			router, logs := observedRouter(zapcore.InfoLevel)
			router.GET("/v1/namespaces", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/namespaces", nil))

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("Expected one entry, got %d", len(entries))
			}
			if entries[0].Level != tt.level || entries[0].Message != tt.message {
				t.Errorf("Expected %s %q, got %s %q", tt.level, tt.message, entries[0].Level, entries[0].Message)
			}
			if entries[0].ContextMap()[logging.FieldPath] != "/v1/namespaces" {
				t.Errorf("Expected path field, got %v", entries[0].ContextMap())
			}
		})
	}
}

func TestRequestLogger_LogsUserAndErrors(t *testing.T) {
	router, logs := observedRouter(zapcore.DebugLevel)
	router.Use(func(c *gin.Context) {
		c.Set(ContextKeyUser, "alice")
		c.Next()
	})
	router.DELETE("/v1/session", func(c *gin.Context) {
		_ = c.Error(http.ErrBodyReadAfterClose)
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/session", nil))

	if started := logs.FilterMessage("request started").Len(); started != 1 {
		t.Errorf("Expected one start entry, got %d", started)
	}
	completed := logs.FilterMessage("request completed with server error").All()
	if len(completed) != 1 {
		t.Fatalf("Expected one completion entry, got %d", len(completed))
	}
	fields := completed[0].ContextMap()
	if fields[logging.FieldUser] != "alice" {
		t.Errorf("Expected user field alice, got %v", fields[logging.FieldUser])
	}
	if fields[logging.FieldStatusCode] != int64(http.StatusInternalServerError) {
		t.Errorf("Expected status field 500, got %v", fields[logging.FieldStatusCode])
	}
	if fields["error"] == "" || fields["error"] == nil {
		t.Error("Expected gin errors on the completion entry")
	}
}

func TestRequestLogger_RequestID(t *testing.T) {
	router, logs := observedRouter(zapcore.InfoLevel)

	var fromContext string
	router.GET("/v1/version", func(c *gin.Context) {
		fromContext = GetRequestID(c)
		logging.FromContext(c.Request.Context()).Info("from service")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/version", nil))

	if _, err := uuid.Parse(fromContext); err != nil {
		t.Fatalf("Expected a UUID request id, got %q", fromContext)
	}
	if got := w.Header().Get(HeaderRequestID); got != fromContext {
		t.Errorf("Expected header %q, got %q", fromContext, got)
	}
	entries := logs.FilterMessage("from service").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one service entry, got %d", len(entries))
	}
	if entries[0].ContextMap()[logging.FieldRequestID] != fromContext {
		t.Error("Expected the request id on service log entries")
	}
}

func TestContextAccessorsWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if GetLogger(c) == nil {
		t.Error("Expected no-op logger when none exists")
	}
	if id := GetRequestID(c); id != "" {
		t.Errorf("Expected empty request ID, got %s", id)
	}
	if user := GetUser(c); user != "" {
		t.Errorf("Expected empty user, got %s", user)
	}
	c.Set(ContextKeyUser, 42)
	if user := GetUser(c); user != "" {
		t.Errorf("Expected empty user for non-string value, got %s", user)
	}
}

package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "json", cfg: Config{Level: "info", Format: FormatJSON}},
		{name: "console", cfg: Config{Level: "debug", Format: FormatConsole}},
		{name: "default format", cfg: Config{Level: "warn"}},
		{name: "development", cfg: Config{Level: "error", Development: true}},
		{name: "invalid level", cfg: Config{Level: "loud"}, wantErr: true},
		{name: "invalid format", cfg: Config{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Fatal("expected non-nil logger")
			}
		})
	}
}

func TestNewProductionLoggerLevel(t *testing.T) {
	logger, err := NewProductionLogger("")
	if err != nil {
		t.Fatalf("NewProductionLogger() error = %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled by default")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled by default")
	}

	dev, err := NewDevelopmentLogger()
	if err != nil {
		t.Fatalf("NewDevelopmentLogger() error = %v", err)
	}
	if !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger should enable debug")
	}
}

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))
	ctx = AddFields(ctx, zap.String(FieldRequestID, "req-1"))

	FromContext(ctx).Info("hello")
	ForResource(ctx, "database-clusters", "prod", "db1").Warn("slow")
	Sugar(ctx).Debugw("sugared", FieldUser, "alice")

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for _, e := range entries {
		if e.ContextMap()[FieldRequestID] != "req-1" {
			t.Errorf("%q: request id missing: %v", e.Message, e.ContextMap())
		}
	}
	if got := entries[1].ContextMap()[FieldNamespace]; got != "prod" {
		t.Errorf("namespace = %v, want prod", got)
	}
	if got := entries[2].ContextMap()[FieldUser]; got != "alice" {
		t.Errorf("user = %v, want alice", got)
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a no-op logger")
	}
}

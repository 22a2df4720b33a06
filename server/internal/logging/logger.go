package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format is the log encoding.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"

	// FormatConsole writes human readable, colored lines.
	FormatConsole Format = "console"
)

// Config holds the logger settings of everest-server.
type Config struct {
	// Level is the minimum enabled level (debug, info, warn, error).
	Level string

	// Format selects the encoder.
	Format Format

	// Development enables stack traces on warnings and DPanic panics.
	Development bool

	// OutputPaths defaults to stdout.
	OutputPaths []string
}

// NewLogger builds a zap logger from cfg.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var enc zapcore.EncoderConfig
	switch cfg.Format {
	case FormatJSON:
		enc = zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
	case FormatConsole, "":
		enc = zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}
	encoding := string(cfg.Format)
	if encoding == "" {
		encoding = string(FormatConsole)
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
	if !cfg.Development {
		zc.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// NewDevelopmentLogger returns a debug level console logger.
func NewDevelopmentLogger() (*zap.Logger, error) {
	return NewLogger(Config{Level: "debug", Format: FormatConsole, Development: true})
}

// NewProductionLogger returns a JSON logger at level, info when empty.
func NewProductionLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	return NewLogger(Config{Level: level, Format: FormatJSON})
}

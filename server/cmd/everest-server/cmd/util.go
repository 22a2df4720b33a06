// Package cmd provides the maintenance utilities of everest-server.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/everest-platform/console/pkg/kubernetes"
)

const usage = `util command requires a subcommand

Available subcommands:
  verify-token     Decode and validate a session token
  prune-blocklist  Delete expired entries from the session blocklist
  check-rbac       Validate an RBAC policy file`

// ExecuteUtil runs a utility command with the given arguments.
func ExecuteUtil(args []string) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	subcommand := args[0]
	subArgs := args[1:]

	switch subcommand {
	case "verify-token":
		return ExecuteVerifyToken(context.Background(), subArgs, os.Stdout)
	case "prune-blocklist":
		return ExecutePruneBlocklist(context.Background(), subArgs, os.Stdout)
	case "check-rbac":
		return ExecuteCheckRBAC(subArgs, os.Stdout)
	default:
		return fmt.Errorf("unknown util subcommand: %s", subcommand)
	}
}

// getEnv retrieves an EVERESTSERVER_ environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv("EVERESTSERVER_" + key); value != "" {
		return value
	}
	return defaultValue
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// kubeClient is replaced in tests.
var kubeClient = func(kubeconfig string, l *zap.Logger) (*kubernetes.Kubernetes, error) {
	return kubernetes.New(kubeconfig, l.Sugar())
}

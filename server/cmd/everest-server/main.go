// Package main provides everest-server, the REST API of the Everest console.
//
// It serves the console API in front of the Kubernetes cluster it runs in.
// "everest-server util <command>" runs the maintenance utilities instead.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/everest-platform/console/pkg/accounts"
	"github.com/everest-platform/console/pkg/certwatcher"
	"github.com/everest-platform/console/pkg/kubernetes"
	"github.com/everest-platform/console/pkg/rbac"
	"github.com/everest-platform/console/pkg/version"
	"github.com/everest-platform/console/pkg/versionservice"
	"github.com/everest-platform/console/server/cmd/everest-server/cmd"
	"github.com/everest-platform/console/server/internal/api"
	"github.com/everest-platform/console/server/internal/logging"
	"github.com/everest-platform/console/server/internal/metrics"
	"github.com/everest-platform/console/server/internal/ratelimit"
	"github.com/everest-platform/console/server/internal/service"
	"github.com/everest-platform/console/server/internal/session"
	"github.com/everest-platform/console/server/internal/storagecheck"
)

const envPrefix = "EVERESTSERVER_"

// Config holds server configuration from flags and environment variables.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080").
	ListenAddr string

	// TLSCertFile and TLSKeyFile enable HTTPS. The pair is reloaded when the files change.
	TLSCertFile string
	TLSKeyFile  string

	// Kubeconfig is the path to a kubeconfig; empty uses the in-cluster config.
	Kubeconfig string

	// BlocklistPath is the SQLite file holding revoked session ids.
	BlocklistPath string

	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string

	// LogFormat is the log format (json, console).
	LogFormat string

	// VersionServiceURL is queried for supported engine versions.
	VersionServiceURL string

	// AllowOrigins is a comma-separated list of allowed CORS origins.
	AllowOrigins string

	// SkipStorageCheck disables the access check of new backup storages.
	SkipStorageCheck bool

	RequestsPerMin     int
	UserRequestsPerMin int
	HealthChecksPerMin int
}

// parseFlags parses command-line flags and environment variables.
func parseFlags(args []string) (*Config, error) {
	config := &Config{}
	limits := ratelimit.DefaultConfig()

	fs := flag.NewFlagSet("everest-server", flag.ContinueOnError)
	fs.StringVar(&config.ListenAddr, "listen", getEnv("LISTEN_ADDR", ":8080"),
		"Address to listen on")
	fs.StringVar(&config.TLSCertFile, "tls-cert", getEnv("TLS_CERT_FILE", ""),
		"TLS certificate file (enables HTTPS)")
	fs.StringVar(&config.TLSKeyFile, "tls-key", getEnv("TLS_KEY_FILE", ""),
		"TLS private key file")
	fs.StringVar(&config.Kubeconfig, "kubeconfig", getEnv("KUBECONFIG", ""),
		"Path to a kubeconfig (in-cluster config when empty)")
	fs.StringVar(&config.BlocklistPath, "blocklist", getEnv("BLOCKLIST_PATH", "./blocklist.db"),
		"Path to the session blocklist SQLite file")
	fs.StringVar(&config.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	fs.StringVar(&config.LogFormat, "log-format", getEnv("LOG_FORMAT", "json"),
		"Log format (json, console)")
	fs.StringVar(&config.VersionServiceURL, "version-service-url", getEnv("VERSION_SERVICE_URL", versionservice.DefaultURL),
		"Percona version service URL")
	fs.StringVar(&config.AllowOrigins, "cors-origins", getEnv("CORS_ORIGINS", ""),
		"Comma-separated list of allowed CORS origins (* for all)")
	fs.BoolVar(&config.SkipStorageCheck, "skip-storage-check", getEnv("SKIP_STORAGE_CHECK", "") == "true",
		"Do not verify access to new backup storages")
	fs.IntVar(&config.RequestsPerMin, "requests-per-min", getEnvInt("REQUESTS_PER_MIN", limits.RequestsPerMin),
		"Requests per minute per client address")
	fs.IntVar(&config.UserRequestsPerMin, "user-requests-per-min", getEnvInt("USER_REQUESTS_PER_MIN", limits.UserRequestsPerMin),
		"Requests per minute per user")
	fs.IntVar(&config.HealthChecksPerMin, "health-checks-per-min", getEnvInt("HEALTH_CHECKS_PER_MIN", limits.HealthChecksPerMin),
		"Probe and metrics requests per minute per client address")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return config, nil
}

// getEnv retrieves an EVERESTSERVER_ environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// validateConfig validates the server configuration.
func validateConfig(config *Config) error {
	if (config.TLSCertFile == "") != (config.TLSKeyFile == "") {
		return errors.New("both --tls-cert and --tls-key must be set to enable TLS")
	}
	if config.BlocklistPath == "" {
		return errors.New("blocklist path is required")
	}
	switch logging.Format(config.LogFormat) {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("invalid log format %q", config.LogFormat)
	}
	if config.RequestsPerMin < 0 || config.UserRequestsPerMin < 0 || config.HealthChecksPerMin < 0 {
		return errors.New("rate limits cannot be negative")
	}
	return nil
}

func (c *Config) rateLimits() ratelimit.Config {
	limits := ratelimit.DefaultConfig()
	limits.RequestsPerMin = c.RequestsPerMin
	limits.UserRequestsPerMin = c.UserRequestsPerMin
	limits.HealthChecksPerMin = c.HealthChecksPerMin
	return limits
}

// parseCORSOrigins parses the comma-separated CORS origins string.
func parseCORSOrigins(origins string) []string {
	var result []string
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "util" {
		if err := cmd.ExecuteUtil(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	config, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if err := validateConfig(config); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  config.LogLevel,
		Format: logging.Format(config.LogFormat),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, config *Config, logger *zap.Logger) error {
	info := version.Info()
	logger.Info("starting everest-server",
		zap.String("version", info.Version),
		zap.String("commit", info.FullCommit),
		zap.String("listen_addr", config.ListenAddr),
		zap.Bool("tls", config.TLSCertFile != ""),
	)

	if err := metrics.Init(); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	kube, err := kubernetes.New(config.Kubeconfig, logger.Sugar())
	if err != nil {
		return err
	}

	blocklist, err := session.OpenBlocklist(ctx, config.BlocklistPath)
	if err != nil {
		return err
	}
	defer blocklist.Close() //nolint:errcheck

	key, err := session.LoadSigningKey(ctx, kube)
	if err != nil {
		return err
	}
	sessions, err := session.NewManager(key, accounts.NewSecretStore(kube), blocklist, logger)
	if err != nil {
		return err
	}

	enforcer, err := rbac.NewEnforcer(ctx, kube, logger.Sugar())
	if err != nil {
		return err
	}
	go enforcer.Start(ctx, rbac.DefaultRefreshInterval)

	var checker storagecheck.Checker = storagecheck.Default{}
	if config.SkipStorageCheck {
		logger.Warn("backup storage access checks are disabled")
		checker = storagecheck.Noop{}
	}

	limits := config.rateLimits()
	attempts := ratelimit.NewAttemptsStore(limits)
	defer attempts.Stop()

	router, limiter := api.SetupRouter(&api.RouterConfig{
		Logger:       logger,
		Handler:      service.NewHandler(kube, versionservice.New(config.VersionServiceURL), checker, enforcer, logger),
		Sessions:     sessions,
		Attempts:     attempts,
		RateLimits:   limits,
		AllowOrigins: parseCORSOrigins(config.AllowOrigins),
		Version:      info,
		Ready: func(ctx context.Context) error {
			_, err := kube.GetDBNamespaces(ctx)
			return err
		},
	})
	defer limiter.Stop()

	go pruneBlocklist(ctx, blocklist, logger)

	srv := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if config.TLSCertFile != "" {
		watcher, err := certwatcher.New(logger, config.TLSCertFile, config.TLSKeyFile)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		srv.TLSConfig = &tls.Config{
			MinVersion:     tls.VersionTLS12,
			GetCertificate: watcher.GetCertificate,
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", config.ListenAddr))
		if srv.TLSConfig != nil {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// pruneBlocklist drops expired session ids every hour and keeps the
// blocklist size gauge current.
func pruneBlocklist(ctx context.Context, b *session.Blocklist, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		if n, err := b.Prune(ctx, time.Now()); err != nil {
			logger.Warn("failed to prune session blocklist", zap.Error(err))
		} else if n > 0 {
			logger.Info("pruned session blocklist", zap.Int64("deleted", n))
		}
		if count, err := b.Count(ctx); err == nil {
			metrics.BlocklistSize.Set(float64(count))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

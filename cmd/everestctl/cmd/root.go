// Package cmd holds the everestctl commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/everest-platform/console/pkg/kubernetes"
)

const (
	flagKubeconfig = "kubeconfig"
	flagVerbose    = "verbose"
	flagJSON       = "json"

	envPrefix = "EVERESTCTL"
)

//nolint:gochecknoglobals
var (
	logger *zap.Logger

	rootCmd = &cobra.Command{
		Use:   "everestctl",
		Short: "everestctl - manage an Everest installation",
		Long: `everestctl manages the database namespaces, user accounts and lifecycle
of an Everest installation on a Kubernetes cluster.

Every flag can also be set through an EVERESTCTL_ environment variable,
for example EVERESTCTL_KUBECONFIG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			l, err := initLogger(viper.GetBool(flagVerbose), viper.GetBool(flagJSON))
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
)

// Execute runs the root command and prints the error it returns.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP(flagKubeconfig, "k", defaultKubeconfig(), "Path to a kubeconfig")
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "Print detailed logs instead of progress spinners")
	rootCmd.PersistentFlags().Bool(flagJSON, false, "Print logs and results as JSON")

	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func defaultKubeconfig() string {
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kube", "config")
}

// initLogger returns a debug console logger with --verbose, a JSON logger
// with --json and otherwise one that only prints warnings.
func initLogger(verbose, asJSON bool) (*zap.Logger, error) {
	var config zap.Config
	if asJSON {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	}
	switch {
	case verbose:
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case !asJSON:
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	config.OutputPaths = []string{"stderr"}
	return config.Build()
}

// pretty reports whether progress is shown as spinners.
func pretty() bool {
	return !viper.GetBool(flagVerbose) && !viper.GetBool(flagJSON)
}

func newKubeClient() (*kubernetes.Kubernetes, error) {
	k, err := kubernetes.New(viper.GetString(flagKubeconfig), logger.Sugar())
	if err != nil {
		var u *url.Error
		if errors.As(err, &u) {
			return nil, fmt.Errorf("could not connect to Kubernetes, make sure it is running and reachable: %w", err)
		}
		return nil, err
	}
	return k, nil
}

func printError(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if logger != nil && viper.GetBool(flagJSON) {
		logger.Error("command failed", zap.Error(err))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

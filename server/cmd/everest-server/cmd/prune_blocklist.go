package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/everest-platform/console/server/internal/session"
)

// ExecutePruneBlocklist deletes revoked session ids whose token has expired.
func ExecutePruneBlocklist(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("prune-blocklist", flag.ContinueOnError)
	path := fs.String("blocklist", getEnv("BLOCKLIST_PATH", "./blocklist.db"), "Path to the session blocklist")
	verbose := fs.Bool("verbose", false, "Enable verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	b, err := session.OpenBlocklist(ctx, *path)
	if err != nil {
		return err
	}
	defer b.Close() //nolint:errcheck

	logger.Info("pruning session blocklist", zap.String("path", *path))
	deleted, err := b.Prune(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to prune blocklist: %w", err)
	}
	remaining, err := b.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count blocklist entries: %w", err)
	}

	fmt.Fprintf(out, "✓ Deleted %d expired entr%s, %d revoked session(s) remain\n", deleted, plural(deleted), remaining)
	return nil
}

func plural(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

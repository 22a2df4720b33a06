package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the pure Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

const blocklistSchema = `
CREATE TABLE IF NOT EXISTS blocklist (
	jti        TEXT PRIMARY KEY,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blocklist_expires_at ON blocklist (expires_at);
`

// Blocklist stores the ids of revoked session tokens until they expire.
type Blocklist struct {
	db *sql.DB
}

// OpenBlocklist opens or creates the SQLite blocklist at path.
// ":memory:" keeps the list in memory.
func OpenBlocklist(ctx context.Context, path string) (*Blocklist, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open blocklist: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping blocklist: %w", err)
	}
	if _, err := db.ExecContext(ctx, blocklistSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create blocklist schema: %w", err)
	}
	return &Blocklist{db: db}, nil
}

// Add revokes jti until expiresAt. Adding the same id twice keeps the later expiry.
func (b *Blocklist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO blocklist (jti, expires_at) VALUES (?, ?)
		ON CONFLICT(jti) DO UPDATE SET expires_at = MAX(expires_at, excluded.expires_at)`,
		jti, expiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to block token: %w", err)
	}
	return nil
}

// Contains reports whether jti is revoked and not yet expired.
func (b *Blocklist) Contains(ctx context.Context, jti string) (bool, error) {
	var n int
	err := b.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM blocklist WHERE jti = ? AND expires_at > ?`,
		jti, time.Now().Unix(),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query blocklist: %w", err)
	}
	return n > 0, nil
}

// Prune deletes entries that expired before now and returns how many were removed.
func (b *Blocklist) Prune(ctx context.Context, now time.Time) (int64, error) {
	res, err := b.db.ExecContext(ctx, `DELETE FROM blocklist WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune blocklist: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored entries.
func (b *Blocklist) Count(ctx context.Context) (int, error) {
	var n int
	if err := b.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM blocklist`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count blocklist: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (b *Blocklist) Close() error {
	return b.db.Close()
}

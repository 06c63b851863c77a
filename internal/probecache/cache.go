package probecache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale caches are safe to delete at any time.
const schemaVersion = 1

// ErrSchemaMismatch indicates the cache database was written by a
// different schema version.
var ErrSchemaMismatch = errors.New("probe cache schema version mismatch")

// Cache persists probed durations in SQLite, keyed by (path, size,
// mtime). A hit means the file is byte-for-byte the one probed before,
// so the stored duration is still valid.
type Cache struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the cache database location.
func (c *Cache) Path() string {
	return c.path
}

// Get looks up a stored duration for the exact file identity.
func (c *Cache) Get(ctx context.Context, path string, size int64, mtimeNS int64) (float64, bool, error) {
	var duration float64
	err := c.db.QueryRowContext(ctx,
		`SELECT duration_seconds FROM probe_results WHERE path = ? AND size_bytes = ? AND mtime_ns = ?`,
		path, size, mtimeNS,
	).Scan(&duration)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query probe cache: %w", err)
	}
	return duration, true, nil
}

// Put stores a probed duration, replacing any previous identity entry
// for the same path.
func (c *Cache) Put(ctx context.Context, path string, size int64, mtimeNS int64, duration float64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO probe_results (path, size_bytes, mtime_ns, duration_seconds, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		path, size, mtimeNS, duration, now,
	)
	if err != nil {
		return fmt.Errorf("store probe result: %w", err)
	}
	// Older identities of the same path only waste space once the file
	// changed; drop them opportunistically.
	_, _ = c.db.ExecContext(ctx,
		`DELETE FROM probe_results WHERE path = ? AND (size_bytes != ? OR mtime_ns != ?)`,
		path, size, mtimeNS,
	)
	return nil
}

// Len reports the number of stored results.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM probe_results`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count probe cache: %w", err)
	}
	return count, nil
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := c.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, c.path)
	}
	return nil
}

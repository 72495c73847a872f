// Package storage provides SQLite-based persistence for downloaded assets.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the asset cache.
type Store struct {
	db *sql.DB
}

// CachedAsset describes one cached download, without its bytes.
type CachedAsset struct {
	URI         string
	ContentType string
	Size        int64
	FetchedAt   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS asset_cache (
			uri TEXT PRIMARY KEY,
			content_type TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL,
			data BLOB NOT NULL,
			fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetAsset returns the cached bytes for uri. ok is false on a cache miss.
func (s *Store) GetAsset(ctx context.Context, uri string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM asset_cache WHERE uri = ?",
		uri,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot read asset: %w", err)
	}
	return data, true, nil
}

// PutAsset stores or replaces the cached bytes for uri.
func (s *Store) PutAsset(ctx context.Context, uri, contentType string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO asset_cache (uri, content_type, size, data, fetched_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(uri) DO UPDATE SET
			content_type = excluded.content_type,
			size = excluded.size,
			data = excluded.data,
			fetched_at = excluded.fetched_at`,
		uri, contentType, len(data), data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save asset: %w", err)
	}
	return nil
}

// ListAssets returns metadata for every cached asset, ordered by URI.
func (s *Store) ListAssets(ctx context.Context) ([]CachedAsset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uri, content_type, size, fetched_at
		 FROM asset_cache
		 ORDER BY uri`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query assets: %w", err)
	}
	defer rows.Close()

	var entries []CachedAsset
	for rows.Next() {
		var e CachedAsset
		var fetchedAt any
		if err := rows.Scan(&e.URI, &e.ContentType, &e.Size, &fetchedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.FetchedAt = parseTime(fetchedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// DeleteAsset removes one cached asset. Deleting a missing URI is not an error.
func (s *Store) DeleteAsset(ctx context.Context, uri string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM asset_cache WHERE uri = ?", uri); err != nil {
		return fmt.Errorf("storage: cannot delete asset: %w", err)
	}
	return nil
}

// Purge removes every cached asset and returns how many were dropped.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM asset_cache")
	if err != nil {
		return 0, fmt.Errorf("storage: cannot purge assets: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count purged rows: %w", err)
	}
	return n, nil
}

// parseTime handles both time.Time and string datetime values from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

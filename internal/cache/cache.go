// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists analysis results in a SQLite database with a fixed
// time-to-live, keyed by the normalized condition string.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

const (
	dbFile     = "analyses.db"
	defaultTTL = 24 * time.Hour
)

// Store manages the analysis result cache.
type Store struct {
	db  *sql.DB
	ttl time.Duration

	// now is the clock, overridable in tests.
	now func() time.Time
}

// Entry describes one cached analysis for inspection.
type Entry struct {
	Key       string
	CreatedAt time.Time
	Expired   bool
}

// NewStore opens or creates the cache database at cfg.Dir/analyses.db,
// creating the schema if needed.
func NewStore(cfg types.CacheConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = ".cache"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	s := &Store{db: db, ttl: ttl, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS analyses (
		query_key TEXT PRIMARY KEY,
		result TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Get returns the cached result for key, or a miss when the key is absent or
// its entry has outlived the TTL. Expired entries are deleted on read.
func (s *Store) Get(ctx context.Context, key string) (*types.HealthAnalysisResult, bool, error) {
	var payload, createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT result, created_at FROM analyses WHERE query_key = ?`, key,
	).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil || s.now().Sub(created) > s.ttl {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM analyses WHERE query_key = ?`, key)
		return nil, false, nil
	}

	var result types.HealthAnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, false, fmt.Errorf("decoding cached result: %w", err)
	}
	return &result, true, nil
}

// Put stores a result under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, result *types.HealthAnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (query_key, result, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(query_key) DO UPDATE SET result = excluded.result, created_at = excluded.created_at`,
		key, string(payload), s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge deletes every entry older than the TTL and returns the count removed.
func (s *Store) Purge(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.ttl).UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Entries lists every cached key with its age status, newest first.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query_key, created_at FROM analyses ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var key, createdAt string
		if err := rows.Scan(&key, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		created, parseErr := time.Parse(time.RFC3339, createdAt)
		entries = append(entries, Entry{
			Key:       key,
			CreatedAt: created,
			Expired:   parseErr != nil || s.now().Sub(created) > s.ttl,
		})
	}
	return entries, rows.Err()
}

// Package store is C10, the Store Writer: it bulk-loads an ingest's
// features, relations, directives, and bookkeeping tables into an
// embedded DuckDB database through database/sql, in one write
// transaction per ingest.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// Store owns a DuckDB connection holding one gffbase database.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates a DuckDB database at path. An empty path opens
// an in-memory database, used by tests.
func Open(path string) (*Store, error) {
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path, logger: zap.NewNop()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// SetLogger sets the logger used for index-build and ANALYZE progress.
func (s *Store) SetLogger(l *zap.Logger) { s.logger = l }

// Close closes the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

// DB returns the underlying *sql.DB, for internal/query.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the path the store was opened with ("" for in-memory).
func (s *Store) Path() string { return s.path }

// Package cache implements the on-disk result cache backing
// `--cache PATH` / `--force-refresh-cache`: a single sqlite table
// keyed by the analysed file's path, storing one JSON-encoded
// serialize.Record blob per row. Grounded on the plain
// database/sql-over-sqlite style of
// sourcecode-parser/db/closure_table.go, adapted from that package's
// Go-AST closure table to rattr's single-row-per-target cache record.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/suadelabs/rattr/internal/serialize"
)

const schema = `
CREATE TABLE IF NOT EXISTS rattr_cache (
	filepath TEXT PRIMARY KEY,
	record   TEXT NOT NULL
);
`

// Store wraps a sqlite-backed cache file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Get returns the cache record stored for filepath, if any.
func (s *Store) Get(filepath string) (*serialize.Record, bool) {
	row := s.db.QueryRow("SELECT record FROM rattr_cache WHERE filepath = ?", filepath)

	var blob string
	if err := row.Scan(&blob); err != nil {
		return nil, false
	}

	var record serialize.Record
	if err := json.Unmarshal([]byte(blob), &record); err != nil {
		return nil, false
	}
	return &record, true
}

// Put upserts filepath's cache record.
func (s *Store) Put(filepath string, record *serialize.Record) error {
	blob, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("cache: encode record for %s: %w", filepath, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO rattr_cache (filepath, record) VALUES (?, ?)
		 ON CONFLICT(filepath) DO UPDATE SET record = excluded.record`,
		filepath, string(blob),
	)
	if err != nil {
		return fmt.Errorf("cache: store record for %s: %w", filepath, err)
	}
	return nil
}

// IsUpToDate reports whether cached matches the freshly computed
// current record on every field except Results, mirroring spec.md
// §6's "a cache is considered up-to-date iff every field matches".
func IsUpToDate(cached, current *serialize.Record) bool {
	if cached == nil || current == nil {
		return false
	}
	if cached.Version != current.Version ||
		cached.ArgumentsHash != current.ArgumentsHash ||
		cached.PluginsHash != current.PluginsHash ||
		cached.Filepath != current.Filepath ||
		cached.Filehash != current.Filehash {
		return false
	}
	if len(cached.Imports) != len(current.Imports) {
		return false
	}
	for i, imp := range cached.Imports {
		if imp != current.Imports[i] {
			return false
		}
	}
	return true
}

// Package storage provides the run-scoped resolution cache: an in-memory
// SQLite database that lives for one run and deduplicates identical
// bibliographic queries. Nothing persists across runs.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ResolutionCache caches resolver results keyed on (author, title, year).
type ResolutionCache struct {
	db *sql.DB
}

// OpenCache opens a fresh in-memory cache.
func OpenCache() (*ResolutionCache, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes; a single in-memory
	// connection also keeps every statement on the same database.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS resolutions (
			qkey        TEXT PRIMARY KEY,
			fields_json TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &ResolutionCache{db: db}, nil
}

// Close closes the cache database.
func (c *ResolutionCache) Close() error {
	return c.db.Close()
}

// Get returns the cached field map for a query, if present.
func (c *ResolutionCache) Get(author, title, year string) (map[string]string, bool, error) {
	var fieldsJSON string
	err := c.db.QueryRow(
		`SELECT fields_json FROM resolutions WHERE qkey = ?`,
		queryKey(author, title, year),
	).Scan(&fieldsJSON)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return nil, false, fmt.Errorf("decoding cached fields: %w", err)
	}
	return fields, true, nil
}

// Put stores the field map for a query, replacing any prior value.
func (c *ResolutionCache) Put(author, title, year string, fields map[string]string) error {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO resolutions (qkey, fields_json) VALUES (?, ?)`,
		queryKey(author, title, year), string(fieldsJSON),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// queryKey normalizes a query into a single cache key. The unit separator
// keeps author/title/year boundaries unambiguous.
func queryKey(author, title, year string) string {
	return strings.ToLower(author + "\x1f" + title + "\x1f" + year)
}

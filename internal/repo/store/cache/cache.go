// Package cache keeps the last known fingerprint of each working-tree file,
// keyed by size and modification time, so unchanged files are not re-hashed.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/keshon/ftt/internal/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
    path TEXT PRIMARY KEY,
    size INTEGER NOT NULL,
    mod_time INTEGER NOT NULL, -- unix nanoseconds
    fingerprint TEXT NOT NULL
);
`

type entry struct {
	Path        string `db:"path"`
	Size        int64  `db:"size"`
	ModTime     int64  `db:"mod_time"`
	Fingerprint string `db:"fingerprint"`
}

// CacheContext is a sqlite-backed file.FingerprintCache.
type CacheContext struct {
	db     *sqlx.DB
	dbPath string
}

// Open opens (creating if needed) the cache database at dbPath.
func Open(dbPath string) (*CacheContext, error) {
	conn, err := db.NewSqliteDB(db.WithPath(dbPath), db.WithMaxOpenConns(1))
	if err != nil {
		return nil, fmt.Errorf("open fingerprint cache: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize fingerprint cache schema: %w", err)
	}
	return &CacheContext{db: conn, dbPath: dbPath}, nil
}

// Close closes the underlying database connection.
func (c *CacheContext) Close() error {
	return c.db.Close()
}

// Lookup returns the cached fingerprint of rel if size and mtime still match.
// Query failures count as a miss.
func (c *CacheContext) Lookup(rel string, size, modTime int64) (string, bool) {
	var e entry
	err := c.db.Get(&e, "SELECT path, size, mod_time, fingerprint FROM fingerprints WHERE path = ?", rel)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("fingerprint cache lookup failed", "path", rel, "error", err)
		}
		return "", false
	}
	if e.Size != size || e.ModTime != modTime {
		return "", false
	}
	return e.Fingerprint, true
}

// Store records the fingerprint of rel at the given size and mtime.
func (c *CacheContext) Store(rel string, size, modTime int64, fingerprint string) error {
	query := `INSERT OR REPLACE INTO fingerprints (path, size, mod_time, fingerprint)
	          VALUES (:path, :size, :mod_time, :fingerprint)`
	_, err := c.db.NamedExec(query, entry{Path: rel, Size: size, ModTime: modTime, Fingerprint: fingerprint})
	if err != nil {
		return fmt.Errorf("store fingerprint for %s: %w", rel, err)
	}
	return nil
}

// Forget drops every row whose path is not in keep.
func (c *CacheContext) Forget(keep map[string]string) (int, error) {
	var paths []string
	if err := c.db.Select(&paths, "SELECT path FROM fingerprints"); err != nil {
		return 0, fmt.Errorf("list cached paths: %w", err)
	}
	removed := 0
	for _, p := range paths {
		if _, ok := keep[p]; ok {
			continue
		}
		if _, err := c.db.Exec("DELETE FROM fingerprints WHERE path = ?", p); err != nil {
			return removed, fmt.Errorf("delete cached path %s: %w", p, err)
		}
		removed++
	}
	return removed, nil
}

// Count returns the number of cached paths.
func (c *CacheContext) Count() (int, error) {
	var count int
	if err := c.db.Get(&count, "SELECT COUNT(*) FROM fingerprints"); err != nil {
		return 0, fmt.Errorf("count cached paths: %w", err)
	}
	return count, nil
}

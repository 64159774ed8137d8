package db

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"github.com/keshon/ftt/internal/fs"
	"github.com/keshon/ftt/internal/util"
)

// Pragmas for a single-process cache db. The rollback journal keeps all
// state inside the one file.
const defaultPragma = `
PRAGMA journal_mode=DELETE;
PRAGMA busy_timeout=5000;
PRAGMA temp_store=MEMORY;
`

type config struct {
	path         string
	pragmas      string
	maxOpenConns int
}

// SqliteOption defines a function that configures the DB
type SqliteOption func(*config)

// WithPath sets the path for the SQLite database
// Use ":memory:" for an in-memory database
func WithPath(path string) SqliteOption {
	return func(c *config) {
		c.path = path
	}
}

// WithPragmas replaces the default pragmas.
func WithPragmas(pragmas string) SqliteOption {
	return func(c *config) {
		c.pragmas = pragmas
	}
}

// WithMaxOpenConns sets the maximum number of open connections
func WithMaxOpenConns(n int) SqliteOption {
	return func(c *config) {
		c.maxOpenConns = n
	}
}

// NewSqliteDB creates a new sqlx.DB with the provided options
func NewSqliteDB(opts ...SqliteOption) (*sqlx.DB, error) {
	cfg := &config{
		path:         ":memory:",
		pragmas:      defaultPragma,
		maxOpenConns: 1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	dsn := ":memory:"
	if cfg.path != ":memory:" {
		if err := util.EnsureDir(fs.NewOSFS(), filepath.Dir(cfg.path)); err != nil {
			return nil, fmt.Errorf("ensure parent directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_txlock=immediate&mode=rwc", cfg.path)
	}

	slog.Debug("db", "driver", driverID, "path", cfg.path)
	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if cfg.maxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.maxOpenConns)
	}

	if _, err := db.Exec(cfg.pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

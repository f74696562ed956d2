// Package repository persists documents and their audit trail in SQLite.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

type Config struct {
	Path        string // database file; ":memory:" for tests
	BusyTimeout time.Duration
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	source_path   TEXT NOT NULL,
	filename      TEXT NOT NULL,
	ext           TEXT NOT NULL,
	size_bytes    INTEGER NOT NULL DEFAULT 0,
	content_hash  TEXT NOT NULL,
	uploaded_at   TIMESTAMP NOT NULL,
	status        TEXT NOT NULL,
	raw_text      TEXT NOT NULL DEFAULT '',
	result_json   TEXT NOT NULL DEFAULT '',
	needs_review  INTEGER NOT NULL DEFAULT 0,
	filed_path    TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_content_hash ON documents(content_hash);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

CREATE TABLE IF NOT EXISTS audit_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	document_id TEXT NOT NULL REFERENCES documents(id),
	action      TEXT NOT NULL,
	detail      TEXT NOT NULL DEFAULT '',
	actor       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_log_document ON audit_log(document_id);
`

// Open opens (creating if needed) the SQLite database and bootstraps the
// schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		cfg.Path = "docsorter.db"
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
	logger.Info("db.open", "path", cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("db.open_failed", "error", err)
		return nil, err
	}
	// modernc sqlite is single-writer; keep the pool small
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		logger.Error("db.bootstrap_failed", "error", err)
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	logger.Info("db.ready")
	return db, nil
}

// Close closes the database gracefully.
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("db.close_failed", "error", err)
		return
	}
	logger.Info("db.closed")
}

// HealthCheck pings the database to catch path/locking issues early.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("db.ping")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}

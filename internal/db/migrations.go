package db

import (
	"database/sql"
	"fmt"
)

// Base schema - uses Snowflake IDs (no AUTOINCREMENT).
// Timestamps that take part in comparisons or ordering are unix milliseconds.
const baseSchema = `
CREATE TABLE IF NOT EXISTS rate_limits (
  bucket TEXT PRIMARY KEY,
  count INTEGER NOT NULL,
  reset_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS alerts (
  id INTEGER PRIMARY KEY,
  email TEXT NOT NULL,
  kind TEXT NOT NULL,
  query TEXT,
  entity_slug TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  token TEXT NOT NULL,
  frequency TEXT NOT NULL DEFAULT 'daily',
  last_checked_at INTEGER,
  last_triggered_at INTEGER,
  created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_status_checked ON alerts(status, last_checked_at);

CREATE TABLE IF NOT EXISTS alert_hits (
  alert_id INTEGER NOT NULL,
  document_id INTEGER NOT NULL,
  created_at TEXT NOT NULL,
  PRIMARY KEY (alert_id, document_id),
  FOREIGN KEY (alert_id) REFERENCES alerts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS entities (
  id INTEGER PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  excerpt TEXT,
  public_summary TEXT,
  source_name TEXT,
  url TEXT,
  hash TEXT NOT NULL UNIQUE,
  published_at INTEGER,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_published_at ON documents(published_at);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// Migration 1: Add limit_per_send column to alerts if not exists
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('alerts') WHERE name = 'limit_per_send'
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("check limit_per_send column: %w", err)
	}

	if count == 0 {
		if _, err := db.Exec(`ALTER TABLE alerts ADD COLUMN limit_per_send INTEGER NOT NULL DEFAULT 10`); err != nil {
			return fmt.Errorf("add limit_per_send column: %w", err)
		}
	}

	// Migration 2: Create newsletter_subscribers table
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS newsletter_subscribers (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'pending',
			token TEXT NOT NULL,
			confirmed_at TEXT,
			created_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create newsletter_subscribers table: %w", err)
	}

	// Migration 3: Index documents by effective time for the alert scan window
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_documents_effective_time ON documents(COALESCE(published_at, created_at))`); err != nil {
		return fmt.Errorf("create idx_documents_effective_time: %w", err)
	}

	return nil
}

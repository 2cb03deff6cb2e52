package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS client (
		id TEXT PRIMARY KEY,
		coach_id TEXT NOT NULL,
		account_id TEXT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		goal TEXT,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (coach_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS calendar_event (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		kind TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		duration_hours REAL NOT NULL,
		location TEXT,
		notes TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES account(id)
	);
	CREATE INDEX IF NOT EXISTS idx_calendar_event_owner_ts
		ON calendar_event(owner_id, timestamp);

	CREATE TABLE IF NOT EXISTS routine (
		id TEXT PRIMARY KEY,
		coach_id TEXT NOT NULL,
		client_id TEXT,
		name TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (coach_id) REFERENCES account(id),
		FOREIGN KEY (client_id) REFERENCES client(id)
	);

	CREATE TABLE IF NOT EXISTS routine_item (
		id TEXT PRIMARY KEY,
		routine_id TEXT NOT NULL,
		day_index INTEGER NOT NULL,
		position INTEGER NOT NULL,
		exercise TEXT NOT NULL,
		sets INTEGER NOT NULL,
		reps TEXT,
		rest_seconds INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		FOREIGN KEY (routine_id) REFERENCES routine(id)
	);

	CREATE TABLE IF NOT EXISTS workout_set (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		routine_item_id TEXT,
		exercise TEXT NOT NULL,
		reps INTEGER NOT NULL,
		weight_kg REAL NOT NULL DEFAULT 0,
		date TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (client_id) REFERENCES client(id)
	);

	CREATE TABLE IF NOT EXISTS checkin (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		date TEXT NOT NULL,
		weight_kg REAL NOT NULL DEFAULT 0,
		mood TEXT,
		notes TEXT,
		photo_url TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (client_id) REFERENCES client(id)
	);

	CREATE TABLE IF NOT EXISTS finance_transaction (
		id TEXT PRIMARY KEY,
		coach_id TEXT NOT NULL,
		client_id TEXT,
		kind TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		description TEXT NOT NULL,
		date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (coach_id) REFERENCES account(id)
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

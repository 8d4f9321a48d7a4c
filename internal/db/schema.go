package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// accounts.id is checked > 0 because id 0 is the reserved admin principal
// in session tokens and must never belong to a real account.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id         INTEGER PRIMARY KEY CHECK (id > 0),
    name       TEXT NOT NULL,
    email      TEXT NOT NULL UNIQUE,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id                 INTEGER PRIMARY KEY,
    title              TEXT NOT NULL,
    image              TEXT NOT NULL DEFAULT '',
    author             TEXT NOT NULL DEFAULT '',
    author_description TEXT,
    minimum_bid        INTEGER NOT NULL DEFAULT 0 CHECK (minimum_bid >= 0),
    year               INTEGER,
    description        TEXT NOT NULL DEFAULT '',
    show_order         INTEGER NOT NULL DEFAULT 0,
    closed             INTEGER NOT NULL DEFAULT 0,
    image_data         BLOB,
    image_mime         TEXT,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bids (
    uuid       TEXT PRIMARY KEY,
    account_id INTEGER NOT NULL REFERENCES accounts(id),
    item_id    INTEGER NOT NULL REFERENCES items(id),
    amount     INTEGER NOT NULL CHECK (amount > 0),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_bids_item ON bids(item_id);

CREATE TABLE IF NOT EXISTS donations (
    uuid       TEXT PRIMARY KEY,
    account_id INTEGER NOT NULL UNIQUE REFERENCES accounts(id),
    amount     INTEGER NOT NULL CHECK (amount > 0),
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: two bids on one item may never share an amount. The bid
	// engine checks this inside its transaction; the index is the backstop
	// that makes the invariant hold even if that check is ever bypassed.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_bids_item_amount
	     ON bids(item_id, amount)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist
// and applies the migration list.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var ErrUnsupportedDriver = errors.New("unsupported database type")

// Open connects to a postgres or sqlite database and verifies the
// connection
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case "postgres":
		driver = "postgres"
	case "sqlite":
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == "sqlite" {
		// A single connection keeps ":memory:" databases shared
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Cleaned ballots, one row per CSV data row
CREATE TABLE IF NOT EXISTS ballot (
    row_no INTEGER PRIMARY KEY,
    choice_1 TEXT,
    choice_2 TEXT,
    choice_3 TEXT,
    choice_4 TEXT,
    party_1 TEXT,
    party_2 TEXT,
    party_3 TEXT,
    party_4 TEXT,
    district_candidate_1 TEXT,
    district_candidate_2 TEXT,
    district_party_1 TEXT,
    district_party_2 TEXT,
    district_no INTEGER,
    city_valid BOOLEAN NOT NULL DEFAULT FALSE,
    district_valid BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_ballot_district_no ON ballot(district_no);

-- Import history
CREATE TABLE IF NOT EXISTS import_run (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    version TEXT NOT NULL,
    ballots INTEGER NOT NULL,
    imported_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The DDL is shared by postgres and sqlite, so it sticks to the common subset
const schema = `
-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    calon_id TEXT PRIMARY KEY CHECK (calon_id IN ('calon1', 'calon2', 'calon3', 'calon4')),
    nama TEXT,
    visi_misi TEXT,
    photo_path TEXT,
    photo_data TEXT,
    updated_at BIGINT
);

-- Votes
CREATE TABLE IF NOT EXISTS votes (
    calon_id TEXT PRIMARY KEY CHECK (calon_id IN ('calon1', 'calon2', 'calon3', 'calon4')),
    count BIGINT NOT NULL DEFAULT 0 CHECK (count >= 0)
);
`

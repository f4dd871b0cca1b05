// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the relational store and creates its schema.

# Connections

Open accepts DATABASE_TYPE ("postgres" or "sqlite") and DATABASE_URL:

	conn, err := db.Open(db.TypeSQLite, "calon.sqlite")

For sqlite the pool is limited to one connection and a busy timeout is set,
so concurrent vote increments wait for the writer lock.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables.

# Tables

  - candidates: one row per slot, nullable profile fields, updated_at in
    Unix milliseconds
  - votes: one counter per slot, created on first vote

Both tables constrain calon_id to calon1..calon4.
*/
package db

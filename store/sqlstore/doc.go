// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sqlstore implements store.Backend on postgres (lib/pq) or sqlite
// (modernc.org/sqlite). Both dialects share the same statements: vote
// increments and candidate upserts are single INSERT .. ON CONFLICT
// statements, so no read-modify-write happens in Go.
package sqlstore

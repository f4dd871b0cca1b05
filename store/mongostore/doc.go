// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package mongostore implements store.Backend on MongoDB
// (STORE_BACKEND=mongo, MONGO_URI, MONGO_DATABASE).
//
// Documents are keyed by candidate id in the "candidates" and "votes"
// collections. Reset uses a multi-document transaction, so the server must
// run as a replica set.
package mongostore

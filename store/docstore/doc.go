// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package docstore implements store.Backend on Cloud Datastore (Firestore in
Datastore mode), selected with STORE_BACKEND=datastore.

Entities use name keys: kind "candidates" and kind "votes", both keyed by the
candidate id. Increments and candidate merges run in RunInTransaction, which
retries on contention. Reset deletes all four counters in one transaction.
*/
package docstore

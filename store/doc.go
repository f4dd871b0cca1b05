// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store defines the persistence contracts for candidate records and
vote counters.

Implementations live in subpackages:

	sqlstore    postgres or sqlite via database/sql
	boltstore   embedded bbolt file
	docstore    Cloud Datastore (Firestore in Datastore mode)
	mongostore  MongoDB

Every operation validates the candidate id before touching storage and
returns models.ErrInvalidIdentifier otherwise. Backend failures are wrapped
with ErrStorageUnavailable.

Increment and Reset are atomic in the store itself; nothing here holds
in-process counters. SafeCounts is the read path used by the public tally:
it never fails to produce four keys, and returns the store error so the
caller can log and flag the fallback.
*/
package store

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/calon-vote/models"
)

var ErrStorageUnavailable = errors.New("storage unavailable")

// CandidateRepository persists the four candidate records
type CandidateRepository interface {
	// Upsert writes only the supplied fields and refreshes updatedAt
	Upsert(ctx context.Context, id models.CandidateID, fields models.CandidateFields) error
	// Get returns an empty record when none exists yet
	Get(ctx context.Context, id models.CandidateID) (models.Candidate, error)
	// Delete is idempotent
	Delete(ctx context.Context, id models.CandidateID) error
}

// VoteCounter keeps one counter per candidate
type VoteCounter interface {
	Increment(ctx context.Context, id models.CandidateID) error
	Counts(ctx context.Context) (models.Tally, error)
	Reset(ctx context.Context) error
}

// Backend is a complete store chosen at startup
type Backend interface {
	CandidateRepository
	VoteCounter
	Ping(ctx context.Context) error
	Close() error
	Name() string
}

// CheckID rejects identifiers outside the fixed candidate set
func CheckID(id models.CandidateID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, string(id))
	}
	return nil
}

// Unavailable wraps a backend failure so callers can match it with errors.Is
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// SafeCounts always returns a complete tally.
// When the store fails the tally is all zeros and the error is returned alongside it.
func SafeCounts(ctx context.Context, c VoteCounter) (models.Tally, error) {
	tally := models.NewTally()
	counts, err := c.Counts(ctx)
	if err != nil {
		return tally, err
	}
	for id, n := range counts {
		if id.Valid() {
			tally[id] = n
		}
	}
	return tally, nil
}

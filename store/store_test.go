// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/calon-vote/models"
)

type fakeCounter struct {
	counts models.Tally
	err    error
}

func (f *fakeCounter) Increment(context.Context, models.CandidateID) error { return f.err }
func (f *fakeCounter) Reset(context.Context) error { return f.err }
func (f *fakeCounter) Counts(context.Context) (models.Tally, error) {
	return f.counts, f.err
}

func TestCheckID(t *testing.T) {
	for _, id := range models.AllCandidates {
		assert.NoError(t, CheckID(id))
	}

	for _, raw := range []string{"", "calon5", "CALON1", "calon1 ", "../calon1"} {
		err := CheckID(models.CandidateID(raw))
		assert.ErrorIs(t, err, models.ErrInvalidIdentifier, "id %q", raw)
	}
}

func TestUnavailable(t *testing.T) {
	assert.NoError(t, Unavailable("get", nil))

	cause := errors.New("connection refused")
	err := Unavailable("get", cause)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "get")
}

func TestSafeCounts(t *testing.T) {
	t.Run("fills missing keys", func(t *testing.T) {
		c := &fakeCounter{counts: models.Tally{models.Calon2: 7}}
		tally, err := SafeCounts(context.Background(), c)
		require.NoError(t, err)
		assert.Equal(t, models.Tally{
			models.Calon1: 0,
			models.Calon2: 7,
			models.Calon3: 0,
			models.Calon4: 0,
		}, tally)
	})

	t.Run("drops unknown keys", func(t *testing.T) {
		c := &fakeCounter{counts: models.Tally{"calon9": 3, models.Calon1: 1}}
		tally, err := SafeCounts(context.Background(), c)
		require.NoError(t, err)
		assert.Len(t, tally, 4)
		assert.EqualValues(t, 1, tally[models.Calon1])
	})

	t.Run("falls back to zeros", func(t *testing.T) {
		c := &fakeCounter{err: Unavailable("counts", errors.New("boom"))}
		tally, err := SafeCounts(context.Background(), c)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.Equal(t, models.NewTally(), tally)
	})
}

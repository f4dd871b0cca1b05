// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package storetest holds the behaviour every store.Backend must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/store"
)

// Factory returns an empty backend; cleanup is registered on t
type Factory func(t *testing.T) store.Backend

// Run executes the shared suite against backends produced by newBackend
func Run(t *testing.T, newBackend Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, b store.Backend)
	}{
		{"Ping", testPing},
		{"GetMissingIsEmpty", testGetMissingIsEmpty},
		{"UpsertAndGet", testUpsertAndGet},
		{"UpsertPreservesOmittedFields", testUpsertPreservesOmitted},
		{"UpsertEmptyStringOverwrites", testUpsertEmptyString},
		{"DeleteIdempotent", testDeleteIdempotent},
		{"InvalidIDRejected", testInvalidIDRejected},
		{"IncrementAndCounts", testIncrementAndCounts},
		{"ConcurrentIncrement", testConcurrentIncrement},
		{"Reset", testReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newBackend(t))
		})
	}
}

func ptr(s string) *string { return &s }

func testPing(t *testing.T, b store.Backend) {
	require.NoError(t, b.Ping(context.Background()))
	assert.NotEmpty(t, b.Name())
}

func testGetMissingIsEmpty(t *testing.T, b store.Backend) {
	c, err := b.Get(context.Background(), models.Calon3)
	require.NoError(t, err)
	assert.Nil(t, c.Nama)
	assert.Nil(t, c.VisiMisi)
	assert.Nil(t, c.PhotoPath)
	assert.Nil(t, c.PhotoData)
	assert.Nil(t, c.UpdatedAt)
}

func testUpsertAndGet(t *testing.T, b store.Backend) {
	ctx := context.Background()
	start := time.Now().Add(-time.Second)
	nama, visi := fake.FullName(), fake.Paragraph()

	require.NoError(t, b.Upsert(ctx, models.Calon1, models.CandidateFields{
		Nama:     ptr(nama),
		VisiMisi: ptr(visi),
	}))

	c, err := b.Get(ctx, models.Calon1)
	require.NoError(t, err)
	require.NotNil(t, c.Nama)
	require.NotNil(t, c.VisiMisi)
	assert.Equal(t, nama, *c.Nama)
	assert.Equal(t, visi, *c.VisiMisi)
	assert.Nil(t, c.PhotoPath)
	require.NotNil(t, c.UpdatedAt)
	assert.True(t, c.UpdatedAt.After(start), "updatedAt %v should be after %v", c.UpdatedAt, start)

	// Other slots are untouched
	other, err := b.Get(ctx, models.Calon2)
	require.NoError(t, err)
	assert.Nil(t, other.Nama)
}

func testUpsertPreservesOmitted(t *testing.T, b store.Backend) {
	ctx := context.Background()
	nama := fake.FullName()

	require.NoError(t, b.Upsert(ctx, models.Calon2, models.CandidateFields{
		Nama:     ptr(nama),
		VisiMisi: ptr("Maju bersama"),
	}))
	first, err := b.Get(ctx, models.Calon2)
	require.NoError(t, err)
	require.NotNil(t, first.UpdatedAt)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, b.Upsert(ctx, models.Calon2, models.CandidateFields{
		PhotoPath: ptr("candidates/calon2.jpg"),
	}))

	c, err := b.Get(ctx, models.Calon2)
	require.NoError(t, err)
	require.NotNil(t, c.Nama)
	assert.Equal(t, nama, *c.Nama)
	require.NotNil(t, c.VisiMisi)
	assert.Equal(t, "Maju bersama", *c.VisiMisi)
	require.NotNil(t, c.PhotoPath)
	assert.Equal(t, "candidates/calon2.jpg", *c.PhotoPath)
	require.NotNil(t, c.UpdatedAt)
	assert.False(t, c.UpdatedAt.Before(*first.UpdatedAt))

	// An upsert with no fields only refreshes updatedAt
	require.NoError(t, b.Upsert(ctx, models.Calon2, models.CandidateFields{}))
	c, err = b.Get(ctx, models.Calon2)
	require.NoError(t, err)
	require.NotNil(t, c.Nama)
	assert.Equal(t, nama, *c.Nama)
}

func testUpsertEmptyString(t *testing.T, b store.Backend) {
	ctx := context.Background()

	require.NoError(t, b.Upsert(ctx, models.Calon4, models.CandidateFields{Nama: ptr("Budi")}))
	require.NoError(t, b.Upsert(ctx, models.Calon4, models.CandidateFields{Nama: ptr("")}))

	c, err := b.Get(ctx, models.Calon4)
	require.NoError(t, err)
	require.NotNil(t, c.Nama)
	assert.Equal(t, "", *c.Nama)
}

func testDeleteIdempotent(t *testing.T, b store.Backend) {
	ctx := context.Background()

	require.NoError(t, b.Upsert(ctx, models.Calon1, models.CandidateFields{Nama: ptr(fake.FullName())}))
	require.NoError(t, b.Delete(ctx, models.Calon1))
	require.NoError(t, b.Delete(ctx, models.Calon1))

	c, err := b.Get(ctx, models.Calon1)
	require.NoError(t, err)
	assert.Nil(t, c.Nama)
	assert.Nil(t, c.UpdatedAt)

	// Never-written slots delete cleanly too
	require.NoError(t, b.Delete(ctx, models.Calon4))
}

func testInvalidIDRejected(t *testing.T, b store.Backend) {
	ctx := context.Background()
	bad := models.CandidateID("calon5")

	assert.ErrorIs(t, b.Upsert(ctx, bad, models.CandidateFields{Nama: ptr("x")}), models.ErrInvalidIdentifier)
	_, err := b.Get(ctx, bad)
	assert.ErrorIs(t, err, models.ErrInvalidIdentifier)
	assert.ErrorIs(t, b.Delete(ctx, bad), models.ErrInvalidIdentifier)
	assert.ErrorIs(t, b.Increment(ctx, bad), models.ErrInvalidIdentifier)
	assert.ErrorIs(t, b.Increment(ctx, ""), models.ErrInvalidIdentifier)

	counts, err := b.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.NewTally(), counts)
}

func testIncrementAndCounts(t *testing.T, b store.Backend) {
	ctx := context.Background()

	counts, err := b.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.NewTally(), counts)

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Increment(ctx, models.Calon1))
	}
	require.NoError(t, b.Increment(ctx, models.Calon3))

	counts, err = b.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Tally{
		models.Calon1: 3,
		models.Calon2: 0,
		models.Calon3: 1,
		models.Calon4: 0,
	}, counts)
}

func testConcurrentIncrement(t *testing.T, b store.Backend) {
	ctx := context.Background()
	const workers = 10
	const perWorker = 5

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				errs <- b.Increment(ctx, models.Calon2)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	counts, err := b.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, workers*perWorker, counts[models.Calon2], "no increment may be lost")
}

func testReset(t *testing.T, b store.Backend) {
	ctx := context.Background()

	// Reset on an empty store is fine
	require.NoError(t, b.Reset(ctx))

	for _, id := range models.AllCandidates {
		require.NoError(t, b.Increment(ctx, id))
	}
	require.NoError(t, b.Reset(ctx))

	counts, err := b.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.NewTally(), counts)

	// Counting resumes from zero
	require.NoError(t, b.Increment(ctx, models.Calon4))
	counts, err = b.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[models.Calon4])
}

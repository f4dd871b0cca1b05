// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package boltstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/store"
	"github.com/danielhkuo/calon-vote/store/storetest"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "data", "calon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltBackend(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Backend { return newStore(t) })
}

func TestCountsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calon.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Increment(ctx, models.Calon1))
	require.NoError(t, s.Increment(ctx, models.Calon1))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[models.Calon1])
}

func TestCancelledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Increment(ctx, models.Calon1), store.ErrStorageUnavailable)

	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts[models.Calon1])
}

func TestUint64Codec(t *testing.T) {
	assert.Equal(t, uint64(0), decodeUint64(nil))
	assert.Equal(t, uint64(0), decodeUint64([]byte{1, 2}))
	assert.Equal(t, uint64(1<<40+7), decodeUint64(encodeUint64(1<<40+7)))
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mongostore

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/calon-vote/store"
	"github.com/danielhkuo/calon-vote/store/storetest"
)

func TestMongoBackend(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	storetest.Run(t, func(t *testing.T) store.Backend {
		name := "calon_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		s, err := Open(context.Background(), uri, name)
		require.NoError(t, err)
		t.Cleanup(func() {
			s.db.Drop(context.Background())
			s.Close()
		})
		return s
	})
}

func TestUpsertRetry(t *testing.T) {
	calls := 0
	err := upsertRetry(func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)

	calls = 0
	boom := errors.New("boom")
	err = upsertRetry(func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "non duplicate-key errors are not retried")
}

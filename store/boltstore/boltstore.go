// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package boltstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/store"
)

const (
	// bucketCandidates holds one JSON record per candidate slot
	bucketCandidates = "candidates"
	// bucketVotes holds one big-endian uint64 counter per candidate slot
	bucketVotes = "votes"

	openTimeout = time.Second
)

// Store keeps candidates and votes in a single bbolt file.
// bbolt allows one writer at a time, so every Update is serialized.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open creates the file and its buckets if needed
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("fail to create directory %s: %w", dir, err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt file %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketCandidates, bucketVotes} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Name() string { return "bolt" }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return store.Unavailable("ping", err)
	}
	return store.Unavailable("ping", s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(bucketVotes)) == nil {
			return errors.New("votes bucket missing")
		}
		return nil
	}))
}

// Upsert reads, merges and writes the record inside one write transaction
func (s *Store) Upsert(ctx context.Context, id models.CandidateID, f models.CandidateFields) error {
	if err := store.CheckID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return store.Unavailable("upsert candidate", err)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketCandidates))

		var c models.Candidate
		if raw := bucket.Get([]byte(id)); raw != nil {
			if err := json.Unmarshal(raw, &c); err != nil {
				return fmt.Errorf("corrupt candidate record: %w", err)
			}
		}
		c.Apply(f, s.now().UTC())

		value, err := json.Marshal(c)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), value)
	})

	return store.Unavailable("upsert candidate", err)
}

func (s *Store) Get(ctx context.Context, id models.CandidateID) (models.Candidate, error) {
	if err := store.CheckID(id); err != nil {
		return models.Candidate{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Candidate{}, store.Unavailable("get candidate", err)
	}

	c := models.Candidate{ID: id}
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketCandidates)).Get([]byte(id))
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &c)
	})
	if err != nil {
		return models.Candidate{}, store.Unavailable("get candidate", err)
	}

	c.ID = id
	return c, nil
}

func (s *Store) Delete(ctx context.Context, id models.CandidateID) error {
	if err := store.CheckID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return store.Unavailable("delete candidate", err)
	}

	return store.Unavailable("delete candidate", s.db.Update(func(tx *bolt.Tx) error {
		// Deleting a missing key is a no-op in bbolt
		return tx.Bucket([]byte(bucketCandidates)).Delete([]byte(id))
	}))
}

func (s *Store) Increment(ctx context.Context, id models.CandidateID) error {
	if err := store.CheckID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return store.Unavailable("increment", err)
	}

	return store.Unavailable("increment", s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketVotes))
		count := decodeUint64(bucket.Get([]byte(id)))
		return bucket.Put([]byte(id), encodeUint64(count+1))
	}))
}

func (s *Store) Counts(ctx context.Context) (models.Tally, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("counts", err)
	}

	tally := models.NewTally()
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketVotes)).ForEach(func(k, v []byte) error {
			if id := models.CandidateID(k); id.Valid() {
				tally[id] = int64(decodeUint64(v))
			}
			return nil
		})
	})
	if err != nil {
		return nil, store.Unavailable("counts", err)
	}
	return tally, nil
}

// Reset drops and recreates the votes bucket in one transaction
func (s *Store) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return store.Unavailable("reset", err)
	}

	return store.Unavailable("reset", s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketVotes)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketVotes))
		return err
	}))
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func decodeUint64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"google.golang.org/api/option"

	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/store"
)

const (
	kindCandidates = "candidates"
	kindVotes      = "votes"

	// contended transactions are retried by the client up to this many times
	maxAttempts = 10
)

// Store keeps candidates and votes in Cloud Datastore
type Store struct {
	client *datastore.Client
	now    func() time.Time
}

// Open creates a client for projectID.
// DATASTORE_EMULATOR_HOST is honoured by the client library.
func Open(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := datastore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return New(client), nil
}

func New(client *datastore.Client) *Store {
	return &Store{client: client, now: time.Now}
}

func (s *Store) Name() string { return "datastore" }

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Ping(ctx context.Context) error {
	var v voteEntity
	err := s.client.Get(ctx, voteKey(models.Calon1), &v)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		err = nil
	}
	return store.Unavailable("ping", err)
}

// Upsert merges inside a transaction; contention makes the client retry
func (s *Store) Upsert(ctx context.Context, id models.CandidateID, f models.CandidateFields) error {
	if err := store.CheckID(id); err != nil {
		return err
	}

	key := candidateKey(id)
	_, err := s.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var e candidateEntity
		if err := tx.Get(key, &e); err != nil && !errors.Is(err, datastore.ErrNoSuchEntity) {
			return err
		}
		e.Apply(f, s.now().UTC())
		_, err := tx.Put(key, &e)
		return err
	}, datastore.MaxAttempts(maxAttempts))

	return store.Unavailable("upsert candidate", err)
}

func (s *Store) Get(ctx context.Context, id models.CandidateID) (models.Candidate, error) {
	if err := store.CheckID(id); err != nil {
		return models.Candidate{}, err
	}

	var e candidateEntity
	err := s.client.Get(ctx, candidateKey(id), &e)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return models.Candidate{ID: id}, nil
	}
	if err != nil {
		return models.Candidate{}, store.Unavailable("get candidate", err)
	}

	e.ID = id
	return e.Candidate, nil
}

func (s *Store) Delete(ctx context.Context, id models.CandidateID) error {
	if err := store.CheckID(id); err != nil {
		return err
	}
	// Deleting a missing entity succeeds
	return store.Unavailable("delete candidate", s.client.Delete(ctx, candidateKey(id)))
}

func (s *Store) Increment(ctx context.Context, id models.CandidateID) error {
	if err := store.CheckID(id); err != nil {
		return err
	}

	key := voteKey(id)
	_, err := s.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var v voteEntity
		if err := tx.Get(key, &v); err != nil && !errors.Is(err, datastore.ErrNoSuchEntity) {
			return err
		}
		v.Count++
		_, err := tx.Put(key, &v)
		return err
	}, datastore.MaxAttempts(maxAttempts))

	return store.Unavailable("increment", err)
}

func (s *Store) Counts(ctx context.Context) (models.Tally, error) {
	keys := allVoteKeys()
	votes := make([]voteEntity, len(keys))

	if err := s.client.GetMulti(ctx, keys, votes); err != nil {
		var multi datastore.MultiError
		if !errors.As(err, &multi) {
			return nil, store.Unavailable("counts", err)
		}
		for _, e := range multi {
			if e != nil && !errors.Is(e, datastore.ErrNoSuchEntity) {
				return nil, store.Unavailable("counts", e)
			}
		}
	}

	tally := models.NewTally()
	for i, id := range models.AllCandidates {
		tally[id] = votes[i].Count
	}
	return tally, nil
}

// Reset deletes every counter in one transaction
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		return tx.DeleteMulti(allVoteKeys())
	}, datastore.MaxAttempts(maxAttempts))

	return store.Unavailable("reset", err)
}

func candidateKey(id models.CandidateID) *datastore.Key {
	return datastore.NameKey(kindCandidates, string(id), nil)
}

func voteKey(id models.CandidateID) *datastore.Key {
	return datastore.NameKey(kindVotes, string(id), nil)
}

func allVoteKeys() []*datastore.Key {
	keys := make([]*datastore.Key, 0, len(models.AllCandidates))
	for _, id := range models.AllCandidates {
		keys = append(keys, voteKey(id))
	}
	return keys
}

type voteEntity struct {
	Count int64 `datastore:"count,noindex"`
}

// candidateEntity stores only the fields that were ever supplied,
// so an absent property loads back as a nil pointer
type candidateEntity struct {
	models.Candidate
}

func (e *candidateEntity) Load(props []datastore.Property) error {
	for _, p := range props {
		switch p.Name {
		case "nama":
			e.Nama = stringValue(p.Value)
		case "visiMisi":
			e.VisiMisi = stringValue(p.Value)
		case "photoPath":
			e.PhotoPath = stringValue(p.Value)
		case "photoData":
			e.PhotoData = stringValue(p.Value)
		case "updatedAt":
			if t, ok := p.Value.(time.Time); ok {
				t = t.UTC()
				e.UpdatedAt = &t
			}
		}
	}
	return nil
}

func (e *candidateEntity) Save() ([]datastore.Property, error) {
	var props []datastore.Property
	add := func(name string, v *string, noIndex bool) {
		if v != nil {
			props = append(props, datastore.Property{Name: name, Value: *v, NoIndex: noIndex})
		}
	}

	add("nama", e.Nama, false)
	// Indexed strings are capped at 1500 bytes
	add("visiMisi", e.VisiMisi, true)
	add("photoPath", e.PhotoPath, false)
	add("photoData", e.PhotoData, true)
	if e.UpdatedAt != nil {
		props = append(props, datastore.Property{Name: "updatedAt", Value: *e.UpdatedAt})
	}
	return props, nil
}

func stringValue(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

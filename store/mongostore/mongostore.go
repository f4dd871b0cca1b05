// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/store"
)

const (
	collCandidates = "candidates"
	collVotes      = "votes"

	connectTimeout = 10 * time.Second
)

// Store keeps candidates and votes in MongoDB
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// Open connects to uri and uses database dbName
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return &Store{client: client, db: client.Database(dbName), now: time.Now}, nil
}

func (s *Store) Name() string { return "mongo" }

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return store.Unavailable("ping", s.client.Ping(ctx, readpref.Primary()))
}

type candidateDoc struct {
	Nama      *string    `bson:"nama,omitempty"`
	VisiMisi  *string    `bson:"visiMisi,omitempty"`
	PhotoPath *string    `bson:"photoPath,omitempty"`
	PhotoData *string    `bson:"photoData,omitempty"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty"`
}

type voteDoc struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

// Upsert sets only the supplied fields; the server applies it atomically
func (s *Store) Upsert(ctx context.Context, id models.CandidateID, f models.CandidateFields) error {
	if err := store.CheckID(id); err != nil {
		return err
	}

	set := bson.M{"updatedAt": s.now().UTC()}
	if f.Nama != nil {
		set["nama"] = *f.Nama
	}
	if f.VisiMisi != nil {
		set["visiMisi"] = *f.VisiMisi
	}
	if f.PhotoPath != nil {
		set["photoPath"] = *f.PhotoPath
	}
	if f.PhotoData != nil {
		set["photoData"] = *f.PhotoData
	}

	err := upsertRetry(func() error {
		_, err := s.db.Collection(collCandidates).UpdateOne(ctx,
			bson.M{"_id": string(id)},
			bson.M{"$set": set},
			options.Update().SetUpsert(true))
		return err
	})
	return store.Unavailable("upsert candidate", err)
}

func (s *Store) Get(ctx context.Context, id models.CandidateID) (models.Candidate, error) {
	if err := store.CheckID(id); err != nil {
		return models.Candidate{}, err
	}

	var doc candidateDoc
	err := s.db.Collection(collCandidates).FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Candidate{ID: id}, nil
	}
	if err != nil {
		return models.Candidate{}, store.Unavailable("get candidate", err)
	}

	c := models.Candidate{
		ID:        id,
		Nama:      doc.Nama,
		VisiMisi:  doc.VisiMisi,
		PhotoPath: doc.PhotoPath,
		PhotoData: doc.PhotoData,
	}
	if doc.UpdatedAt != nil {
		t := doc.UpdatedAt.UTC()
		c.UpdatedAt = &t
	}
	return c, nil
}

func (s *Store) Delete(ctx context.Context, id models.CandidateID) error {
	if err := store.CheckID(id); err != nil {
		return err
	}
	_, err := s.db.Collection(collCandidates).DeleteOne(ctx, bson.M{"_id": string(id)})
	return store.Unavailable("delete candidate", err)
}

// Increment is a server-side $inc with upsert
func (s *Store) Increment(ctx context.Context, id models.CandidateID) error {
	if err := store.CheckID(id); err != nil {
		return err
	}

	err := upsertRetry(func() error {
		_, err := s.db.Collection(collVotes).UpdateOne(ctx,
			bson.M{"_id": string(id)},
			bson.M{"$inc": bson.M{"count": int64(1)}},
			options.Update().SetUpsert(true))
		return err
	})
	return store.Unavailable("increment", err)
}

func (s *Store) Counts(ctx context.Context) (models.Tally, error) {
	cur, err := s.db.Collection(collVotes).Find(ctx, bson.M{})
	if err != nil {
		return nil, store.Unavailable("counts", err)
	}

	var docs []voteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, store.Unavailable("counts", err)
	}

	tally := models.NewTally()
	for _, d := range docs {
		if id := models.CandidateID(d.ID); id.Valid() {
			tally[id] = d.Count
		}
	}
	return tally, nil
}

// Reset clears the counters in one transaction (requires a replica set)
func (s *Store) Reset(ctx context.Context) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return store.Unavailable("reset", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return s.db.Collection(collVotes).DeleteMany(sc, bson.M{})
	})
	return store.Unavailable("reset", err)
}

// upsertRetry retries once when two first-time upserts race on the same _id
func upsertRetry(fn func() error) error {
	err := fn()
	if mongo.IsDuplicateKeyError(err) {
		err = fn()
	}
	return err
}

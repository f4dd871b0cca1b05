// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/danielhkuo/calon-vote/db"
	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/store"
)

// Store keeps candidates and votes in postgres or sqlite
type Store struct {
	db     *sql.DB
	dbType string
	now    func() time.Time
}

// Open connects, creates the schema, and returns a ready Store
func Open(dbType, url string) (*Store, error) {
	conn, err := db.Open(dbType, url)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return New(conn, dbType), nil
}

// New wraps an existing connection whose schema is already in place
func New(conn *sql.DB, dbType string) *Store {
	return &Store{db: conn, dbType: dbType, now: time.Now}
}

func (s *Store) Name() string { return "sql/" + s.dbType }

func (s *Store) Ping(ctx context.Context) error {
	return store.Unavailable("ping", s.db.PingContext(ctx))
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying connection for tests and maintenance
func (s *Store) DB() *sql.DB { return s.db }

// Upsert merges the supplied fields in a single statement.
// NULL parameters keep the stored column through COALESCE.
func (s *Store) Upsert(ctx context.Context, id models.CandidateID, f models.CandidateFields) error {
	if err := store.CheckID(id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (calon_id, nama, visi_misi, photo_path, photo_data, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (calon_id) DO UPDATE SET
			nama = COALESCE(excluded.nama, candidates.nama),
			visi_misi = COALESCE(excluded.visi_misi, candidates.visi_misi),
			photo_path = COALESCE(excluded.photo_path, candidates.photo_path),
			photo_data = COALESCE(excluded.photo_data, candidates.photo_data),
			updated_at = excluded.updated_at
	`, string(id), nullString(f.Nama), nullString(f.VisiMisi), nullString(f.PhotoPath),
		nullString(f.PhotoData), s.now().UnixMilli())

	return store.Unavailable("upsert candidate", err)
}

func (s *Store) Get(ctx context.Context, id models.CandidateID) (models.Candidate, error) {
	if err := store.CheckID(id); err != nil {
		return models.Candidate{}, err
	}

	var nama, visiMisi, photoPath, photoData sql.NullString
	var updatedAt sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT nama, visi_misi, photo_path, photo_data, updated_at
		FROM candidates WHERE calon_id = $1
	`, string(id)).Scan(&nama, &visiMisi, &photoPath, &photoData, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Candidate{ID: id}, nil
	}
	if err != nil {
		return models.Candidate{}, store.Unavailable("get candidate", err)
	}

	c := models.Candidate{
		ID:        id,
		Nama:      stringPtr(nama),
		VisiMisi:  stringPtr(visiMisi),
		PhotoPath: stringPtr(photoPath),
		PhotoData: stringPtr(photoData),
	}
	if updatedAt.Valid {
		t := time.UnixMilli(updatedAt.Int64).UTC()
		c.UpdatedAt = &t
	}
	return c, nil
}

func (s *Store) Delete(ctx context.Context, id models.CandidateID) error {
	if err := store.CheckID(id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE calon_id = $1`, string(id))
	return store.Unavailable("delete candidate", err)
}

// Increment is a single upsert statement; the database serializes racing voters
func (s *Store) Increment(ctx context.Context, id models.CandidateID) error {
	if err := store.CheckID(id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO votes (calon_id, count) VALUES ($1, 1)
		ON CONFLICT (calon_id) DO UPDATE SET count = votes.count + 1
	`, string(id))

	return store.Unavailable("increment", err)
}

func (s *Store) Counts(ctx context.Context) (models.Tally, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT calon_id, count FROM votes`)
	if err != nil {
		return nil, store.Unavailable("counts", err)
	}
	defer rows.Close()

	tally := models.NewTally()
	for rows.Next() {
		var id string
		var count int64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, store.Unavailable("counts", err)
		}
		if cid := models.CandidateID(id); cid.Valid() {
			tally[cid] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("counts", err)
	}

	return tally, nil
}

// Reset clears every counter in one statement
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM votes`)
	return store.Unavailable("reset", err)
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

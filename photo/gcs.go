// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/danielhkuo/calon-vote/models"
)

// GCSStore keeps photos in a Google Cloud Storage bucket
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCS creates a client for bucket. An empty credentialsFile falls back to
// application default credentials.
func NewGCS(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Name() string { return "gcs" }

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) Put(ctx context.Context, id models.CandidateID, data []byte, contentType string, maxSize int64) (Handle, error) {
	contentType, err := check(id, data, contentType, maxSize)
	if err != nil {
		return Handle{}, err
	}

	key := ObjectKey(id)
	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		wc.Close()
		return Handle{}, fmt.Errorf("failed to upload %s/%s: %w", s.bucket, key, err)
	}
	// The object only exists once Close returns without error
	if err := wc.Close(); err != nil {
		return Handle{}, fmt.Errorf("failed to finish upload %s/%s: %w", s.bucket, key, err)
	}

	return Handle{Key: key}, nil
}

func (s *GCSStore) Open(ctx context.Context, id models.CandidateID) (io.ReadCloser, string, error) {
	if !id.Valid() {
		return nil, "", fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, string(id))
	}

	r, err := s.client.Bucket(s.bucket).Object(ObjectKey(id)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", ObjectKey(id), err)
	}

	contentType := r.Attrs.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}
	return r, contentType, nil
}

func (s *GCSStore) Delete(ctx context.Context, id models.CandidateID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, string(id))
	}

	err := s.client.Bucket(s.bucket).Object(ObjectKey(id)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", ObjectKey(id), err)
	}
	return nil
}

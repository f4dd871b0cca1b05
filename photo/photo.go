// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package photo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/danielhkuo/calon-vote/models"
)

const DefaultContentType = "image/jpeg"

var (
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrInline is returned by Open when photos live inside the candidate record
	ErrInline   = errors.New("photo stored inline")
	ErrNotFound = errors.New("photo not found")
)

// Store persists one photo per candidate
type Store interface {
	Put(ctx context.Context, id models.CandidateID, data []byte, contentType string, maxSize int64) (Handle, error)
	Open(ctx context.Context, id models.CandidateID) (io.ReadCloser, string, error)
	// Delete succeeds when nothing is stored
	Delete(ctx context.Context, id models.CandidateID) error
	Name() string
}

// Handle is what gets written into the candidate record after an upload.
// Exactly one of Key and DataURI is set.
type Handle struct {
	Key     string
	DataURI string
}

func (h Handle) Inline() bool { return h.DataURI != "" }

// Fields returns the partial candidate update that records this photo
func (h Handle) Fields() models.CandidateFields {
	if h.Inline() {
		uri := h.DataURI
		return models.CandidateFields{PhotoData: &uri}
	}
	key := h.Key
	return models.CandidateFields{PhotoPath: &key}
}

// ObjectKey is the object name for a candidate photo
func ObjectKey(id models.CandidateID) string {
	return fmt.Sprintf("candidates/%s.jpg", id)
}

// check validates a Put call before any backend work happens
func check(id models.CandidateID, data []byte, contentType string, maxSize int64) (string, error) {
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, string(id))
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, len(data), maxSize)
	}
	if contentType == "" {
		contentType = DefaultContentType
	}
	return contentType, nil
}

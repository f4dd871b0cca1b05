// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package photo

import (
	"context"
	"encoding/base64"
	"io"

	"github.com/danielhkuo/calon-vote/models"
)

type inlineStore struct{}

// NewInline keeps photos as base64 data URIs inside the candidate record
func NewInline() Store {
	return inlineStore{}
}

func (inlineStore) Name() string { return "inline" }

func (inlineStore) Put(_ context.Context, id models.CandidateID, data []byte, contentType string, maxSize int64) (Handle, error) {
	contentType, err := check(id, data, contentType, maxSize)
	if err != nil {
		return Handle{}, err
	}
	return Handle{DataURI: "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)}, nil
}

func (inlineStore) Open(context.Context, models.CandidateID) (io.ReadCloser, string, error) {
	return nil, "", ErrInline
}

// Delete is a no-op; the data goes away with the candidate record
func (inlineStore) Delete(context.Context, models.CandidateID) error {
	return nil
}

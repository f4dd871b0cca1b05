// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/danielhkuo/calon-vote/models"
)

type localStore struct {
	dir string
}

// NewLocal writes photos under dir using the object key as relative path
func NewLocal(dir string) Store {
	return &localStore{dir: dir}
}

func (s *localStore) Name() string { return "local" }

func (s *localStore) path(id models.CandidateID) string {
	return filepath.Join(s.dir, filepath.FromSlash(ObjectKey(id)))
}

// typeSuffix names the sidecar file holding the uploaded content type
const typeSuffix = ".type"

func (s *localStore) Put(_ context.Context, id models.CandidateID, data []byte, contentType string, maxSize int64) (Handle, error) {
	contentType, err := check(id, data, contentType, maxSize)
	if err != nil {
		return Handle{}, err
	}

	name := s.path(id)
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return Handle{}, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(name), err)
	}

	if err := writeAtomic(name+typeSuffix, []byte(contentType)); err != nil {
		return Handle{}, err
	}
	if err := writeAtomic(name, data); err != nil {
		return Handle{}, err
	}

	return Handle{Key: ObjectKey(id)}, nil
}

// writeAtomic writes then renames so readers never see a partial file
func writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

func (s *localStore) Open(_ context.Context, id models.CandidateID) (io.ReadCloser, string, error) {
	if !id.Valid() {
		return nil, "", fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, string(id))
	}

	name := s.path(id)
	f, err := os.Open(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}

	// Photos written before the sidecar existed are JPEG
	contentType := DefaultContentType
	if b, err := os.ReadFile(name + typeSuffix); err == nil && len(b) > 0 {
		contentType = string(b)
	}
	return f, contentType, nil
}

func (s *localStore) Delete(_ context.Context, id models.CandidateID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, string(id))
	}

	name := s.path(id)
	for _, p := range []string{name, name + typeSuffix} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete photo: %w", err)
		}
	}
	return nil
}

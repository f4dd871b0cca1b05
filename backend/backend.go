// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package backend builds the store and photo strategies named in the config.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/matryer/try.v1"

	"github.com/danielhkuo/calon-vote/cliparse"
	"github.com/danielhkuo/calon-vote/photo"
	"github.com/danielhkuo/calon-vote/store"
	"github.com/danielhkuo/calon-vote/store/boltstore"
	"github.com/danielhkuo/calon-vote/store/docstore"
	"github.com/danielhkuo/calon-vote/store/mongostore"
	"github.com/danielhkuo/calon-vote/store/sqlstore"
)

// Open connects the configured store backend
func Open(ctx context.Context, cfg cliparse.Config) (store.Backend, error) {
	var b store.Backend
	var err error

	switch cfg.StoreBackend {
	case cliparse.StoreSQL:
		b, err = sqlstore.Open(cfg.DatabaseType, cfg.DatabaseURL)
	case cliparse.StoreBolt:
		b, err = boltstore.Open(cfg.BoltPath)
	case cliparse.StoreDatastore:
		b, err = docstore.Open(ctx, cfg.DatastoreProject, cfg.GoogleCredentials)
	case cliparse.StoreMongo:
		b, err = mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
	// Keep a typed nil pointer from escaping as a non-nil interface
	if err != nil {
		return nil, err
	}
	return b, nil
}

// OpenPhotos builds the configured photo strategy
func OpenPhotos(ctx context.Context, cfg cliparse.Config) (photo.Store, error) {
	switch cfg.PhotoBackend {
	case cliparse.PhotoInline:
		return photo.NewInline(), nil
	case cliparse.PhotoLocal:
		return photo.NewLocal(cfg.PhotoDir), nil
	case cliparse.PhotoGCS:
		s, err := photo.NewGCS(ctx, cfg.PhotoBucket, cfg.GoogleCredentials)
		if err != nil {
			return nil, err
		}
		return s, nil
	case cliparse.PhotoS3:
		s, err := photo.NewS3(cfg.PhotoBucket, cfg.S3Region)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported photo backend %q", cfg.PhotoBackend)
}

// WaitReady pings b until it answers, giving up after attempts tries.
// A freshly started database container often refuses the first connections.
func WaitReady(ctx context.Context, b store.Backend, attempts int, delay time.Duration) error {
	err := try.Do(func(attempt int) (bool, error) {
		pingCtx, cancel := context.WithTimeout(ctx, delay)
		defer cancel()

		err := b.Ping(pingCtx)
		if err != nil && attempt < attempts {
			slog.Warn("store not ready", "store", b.Name(), "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(delay):
			}
		}
		return attempt < attempts, err
	})
	if err != nil {
		return fmt.Errorf("store %s not ready after %d attempts: %w", b.Name(), attempts, err)
	}
	return nil
}

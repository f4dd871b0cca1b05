// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/calon-vote/cliparse"
	"github.com/danielhkuo/calon-vote/metrics"
	"github.com/danielhkuo/calon-vote/middleware"
	"github.com/danielhkuo/calon-vote/models"
)

const defaultStoreTimeout = 5 * time.Second

// storeContext bounds a single store call by the configured timeout
func storeContext(r *http.Request, cfg cliparse.Config) (context.Context, context.CancelFunc) {
	timeout := cfg.StoreTimeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return context.WithTimeout(r.Context(), timeout)
}

// writeStoreError maps a failed write-path store call to a response
func writeStoreError(w http.ResponseWriter, r *http.Request, m *metrics.Metrics, op string, err error) {
	if errors.Is(err, models.ErrInvalidIdentifier) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid calon")
		return
	}

	m.StoreError(op)
	slog.Error("store operation failed",
		"request_id", middleware.RequestID(r.Context()),
		"operation", op,
		"error", err,
	)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}

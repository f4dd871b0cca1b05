// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/calon-vote/cliparse"
	"github.com/danielhkuo/calon-vote/metrics"
	"github.com/danielhkuo/calon-vote/middleware"
	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/store"
)

// FallbackHeader marks a tally answered with zeros because the store failed
const FallbackHeader = "X-Votes-Fallback"

type VoteHandler struct {
	counter store.VoteCounter
	metrics *metrics.Metrics
	cfg     cliparse.Config
}

func NewVoteHandler(counter store.VoteCounter, m *metrics.Metrics, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{counter: counter, metrics: m, cfg: cfg}
}

// Submit handles POST /submitVote
// Repeat votes from the same caller are accepted.
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateIDRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := models.ParseCandidateID(req.CalonID)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid calon")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	if err := h.counter.Increment(ctx, id); err != nil {
		writeStoreError(w, r, h.metrics, "increment", err)
		return
	}

	h.metrics.VoteSubmitted(id)
	middleware.TextResponse(w, http.StatusOK, "Vote submitted")
}

// Get handles GET /getVotes
// A failing store yields zeros with the fallback header instead of an error.
func (h *VoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	tally, err := store.SafeCounts(ctx, h.counter)
	if err != nil {
		h.metrics.StoreError("counts")
		h.metrics.TallyFallback()
		slog.Warn("vote tally unavailable",
			"request_id", middleware.RequestID(r.Context()),
			"fallback", true,
			"error", err,
		)
		w.Header().Set(FallbackHeader, "true")
	}

	w.Header().Set("Cache-Control", "no-store")
	middleware.JSONResponse(w, http.StatusOK, tally)
}

// Reset handles POST /resetVotes
func (h *VoteHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	if err := h.counter.Reset(ctx); err != nil {
		writeStoreError(w, r, h.metrics, "reset", err)
		return
	}

	slog.Info("votes reset")
	middleware.TextResponse(w, http.StatusOK, "Votes reset")
}

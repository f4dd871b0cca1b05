// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/calon-vote/auth"
	"github.com/danielhkuo/calon-vote/cliparse"
	"github.com/danielhkuo/calon-vote/handlers"
	"github.com/danielhkuo/calon-vote/metrics"
	"github.com/danielhkuo/calon-vote/middleware"
	"github.com/danielhkuo/calon-vote/photo"
	"github.com/danielhkuo/calon-vote/store"
)

const defaultStoreTimeout = 5 * time.Second

func NewRouter(backend store.Backend, photos photo.Store, verifier auth.Verifier, cfg cliparse.Config) http.Handler {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	mux := http.NewServeMux()
	m := metrics.New(metrics.Namespace)
	sessions := auth.NewSessions(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(verifier, sessions, cfg)
	candidateHandler := handlers.NewCandidateHandler(backend, photos, m, cfg)
	voteHandler := handlers.NewVoteHandler(backend, m, cfg)

	// handle registers a logged, instrumented route; route is the metrics label
	handle := func(pattern, route string, h http.HandlerFunc) {
		mux.Handle(pattern, m.Instrument(route, middleware.WithLogging(h)))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAdmin(sessions, h)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.StoreTimeout)
		defer cancel()

		if err := backend.Ping(ctx); err != nil {
			slog.Warn("health check failed", "store", backend.Name(), "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Store unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Admin session
	handle("POST /login", "/login", authHandler.Login)
	handle("GET /logout", "/logout", authHandler.Logout)
	handle("GET /pageadmin/", "/pageadmin", authHandler.PageAdmin)

	// Candidates
	handle("POST /saveCandidate", "/saveCandidate", admin(candidateHandler.Save))
	handle("GET /getCandidate", "/getCandidate", candidateHandler.Get)
	handle("POST /uploadPhoto", "/uploadPhoto", admin(candidateHandler.UploadPhoto))
	handle("GET /photo", "/photo", candidateHandler.Photo)
	handle("POST /deleteCandidate", "/deleteCandidate", admin(candidateHandler.Delete))

	// Votes
	handle("POST /submitVote", "/submitVote", voteHandler.Submit)
	handle("GET /getVotes", "/getVotes", voteHandler.Get)
	handle("POST /resetVotes", "/resetVotes", admin(voteHandler.Reset))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("calon-vote API v1"))
	})

	return middleware.CORS(cfg.AllowedOrigin, mux)
}

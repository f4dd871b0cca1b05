// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /getVotes", middleware.WithLogging(handler))

Each request gets a UUID, returned in X-Request-ID and available to
handlers through RequestID(ctx). Completion logs carry status and
duration_ms.

# Admin Gate

	mux.HandleFunc("POST /resetVotes", middleware.RequireAdmin(sessions, handler))

Requests without a valid session get 403 and never reach the handler.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigin, mux),
	}

Credentials are allowed only for the configured origin. With no origin
configured the API is same-origin only: no allow-origin or credentials
headers are sent. Preflight requests get 204.

# Response Helpers

	middleware.TextResponse(w, http.StatusOK, "Saved")
	middleware.JSONResponse(w, http.StatusOK, tally)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid calon")

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used in login failure logs.
*/
package middleware

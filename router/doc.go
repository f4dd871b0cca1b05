// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the calon-vote API.

# Route Registration

NewRouter wires handlers onto an http.ServeMux and wraps it in CORS:

	handler := router.NewRouter(backend, photos, verifier, cfg)

# Endpoints

Health and monitoring:

	GET /health  - 200 OK, or 503 when the store ping fails
	GET /metrics - Prometheus exposition

Admin session:

	POST /login      - form or JSON password, sets the admin cookie
	GET  /logout     - clears the cookie, redirects to LOGOUT_REDIRECT
	GET  /pageadmin/ - admin page gate, redirects when not logged in

Candidates:

	POST /saveCandidate   - admin, partial upsert
	GET  /getCandidate    - ?id=calonN, {} when never saved
	POST /uploadPhoto     - admin, multipart photo + calonId
	GET  /photo           - ?id=calonN, streams object-stored photos
	POST /deleteCandidate - admin

Votes:

	POST /submitVote - public, unlimited
	GET  /getVotes   - all four counts, Cache-Control: no-store
	POST /resetVotes - admin

Admin routes answer 403 without a valid session. Every route except
/health and /metrics is logged and timed under its path label.
*/
package router

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the calon-vote API.

# Handler Types

Each handler is a struct holding its store dependency, metrics and config:

  - AuthHandler: admin login, logout and the admin page gate
  - CandidateHandler: candidate profiles and photos
  - VoteHandler: vote submission, tally and reset

Handlers are created via constructor functions:

	voteHandler := handlers.NewVoteHandler(backend, m, cfg)

# Candidates

Every request names one of the four fixed slots, calon1..calon4. Anything
else is rejected with 400 before storage is touched.

	POST /saveCandidate   → Save (partial update, omitted fields kept)
	GET  /getCandidate    → Get ({} for a slot never saved)
	POST /uploadPhoto     → UploadPhoto (multipart, 413 over MAX_PHOTO_BYTES)
	GET  /photo           → Photo (object-backed photo strategies only)
	POST /deleteCandidate → Delete (photo removal is best effort)

# Votes

	POST /submitVote → Submit
	GET  /getVotes   → Get (all four keys, zeros plus X-Votes-Fallback on store failure)
	POST /resetVotes → Reset

Admin operations are wrapped in middleware.RequireAdmin by the router.
Store calls are bounded by STORE_TIMEOUT.
*/
package handlers

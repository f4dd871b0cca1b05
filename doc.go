// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the calon-vote API server.

calon-vote runs a small election with four fixed candidate slots
(calon1..calon4). Admins manage candidate profiles and photos; the
public reads profiles, casts votes and reads the tally.

# Starting the Server

The server reads CLI flags, then the environment, then an optional .env file:

	ADMIN_PASSWORD=... DATABASE_TYPE=sqlite DATABASE_URL=calon.sqlite go run .

Or with flags:

	go run . -p 3318 -s bolt -photos local

# Configuration

Required settings:

  - ADMIN_PASSWORD or ADMIN_PASSWORD_HASH (bcrypt)

Store selection (STORE_BACKEND, -s):

  - sql: DATABASE_TYPE (postgres or sqlite) and DATABASE_URL
  - bolt: BOLT_PATH
  - datastore: DATASTORE_PROJECT_ID, GOOGLE_APPLICATION_CREDENTIALS
  - mongo: MONGO_URI, MONGO_DATABASE

Photo selection (PHOTO_BACKEND, -photos): inline, local (PHOTO_DIR),
gcs or s3 (PHOTO_BUCKET, S3_REGION).

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - MAX_PHOTO_BYTES, STORE_TIMEOUT
  - COOKIE_SAMESITE, INSECURE_COOKIES, ALLOWED_ORIGIN, LOGOUT_REDIRECT
  - LOG_FORMAT (text or json), LOG_LEVEL

# Architecture

  - handlers: HTTP request handlers (auth, candidates, votes)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin gate, JSON helpers
  - store: repository interfaces and one package per backend
  - photo: photo storage strategies
  - backend: builds the configured store and photo strategy
  - auth: admin credential and session cookie
  - cookie: Set-Cookie codec
  - metrics: Prometheus collectors
  - db: SQL connections and schema
  - models: Request/response and domain types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A dotenv file (default .env, see -env-file) is loaded first. Variables
already present in the environment are never overridden by the file, and a
missing file is not an error.

# CLI Flags

	-p              Server port
	-env-file       Dotenv file to load
	-s              Store backend (sql, bolt, datastore, mongo)
	-d              Database URL
	-t              Database type (sqlite, postgres)
	-photos         Photo backend (inline, local, gcs, s3)
	-max-photo      Photo size ceiling in bytes
	-store-timeout  Timeout per store call (Go duration)
	-admin-password Plaintext admin password
	-admin-hash     Bcrypt admin password hash
	-same-site      Session cookie SameSite policy

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p (default 3318)
	STORE_BACKEND        → -s (default sql)
	DATABASE_URL         → -d (required for sql)
	DATABASE_TYPE        → -t (default sqlite)
	PHOTO_BACKEND        → -photos (default inline)
	MAX_PHOTO_BYTES      → -max-photo (default 2 MiB)
	STORE_TIMEOUT        → -store-timeout (default 5s)
	ADMIN_PASSWORD       → -admin-password
	ADMIN_PASSWORD_HASH  → -admin-hash
	COOKIE_SAMESITE      → -same-site (default strict)

Environment only:

	BOLT_PATH, DATASTORE_PROJECT_ID, MONGO_URI, MONGO_DATABASE,
	PHOTO_DIR, PHOTO_BUCKET, S3_REGION, GOOGLE_APPLICATION_CREDENTIALS,
	INSECURE_COOKIES, ALLOWED_ORIGIN, LOGOUT_REDIRECT

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - neither ADMIN_PASSWORD nor ADMIN_PASSWORD_HASH is set
  - the store backend is unknown or missing its connection setting
  - a gcs or s3 photo backend has no PHOTO_BUCKET
  - a size, duration or SameSite value does not parse
*/
package cliparse

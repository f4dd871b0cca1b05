// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin credential checks and the admin session marker.

# Credential Verifier

Exactly one credential is active per deployment:

	v, err := auth.NewVerifier(cfg)
	if v.Verify(password) { ... }

A plaintext ADMIN_PASSWORD is compared in constant time (both sides are
SHA-256 digested first, so lengths do not leak). Otherwise
ADMIN_PASSWORD_HASH is checked with bcrypt. Verify never panics: empty
input and malformed hashes simply return false.

# Sessions

There is a single administrative identity, so the session is a shared
boolean marker cookie rather than a server-side session table:

	sessions := auth.NewSessions(cfg)
	cookie.Set(w, sessions.Issue())  // admin=true; HttpOnly; Secure; SameSite=...; Path=/
	cookie.Set(w, sessions.Revoke()) // admin=; Max-Age=0
	ok := sessions.Validate(r)

Validate only accepts the exact raw value "true"; a quoted "true" is
rejected. SameSite=None always keeps the Secure attribute, even with
INSECURE_COOKIES set for local testing.
*/
package auth

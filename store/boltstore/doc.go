// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package boltstore implements store.Backend on an embedded bbolt file
// (STORE_BACKEND=bolt, BOLT_PATH). It needs no external service and suits
// single-instance deployments.
package boltstore

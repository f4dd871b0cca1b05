// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus collectors for the API.

Each router owns a Metrics value with its own registry, served on
GET /metrics:

	calon_votes_submitted_total{candidate}
	calon_store_errors_total{operation}
	calon_tally_fallbacks_total
	calon_http_request_duration_seconds{route,code}

plus the standard Go runtime and process collectors.
*/
package metrics

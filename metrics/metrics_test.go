// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/calon-vote/models"
)

func TestCounters(t *testing.T) {
	m := New(Namespace)

	m.VoteSubmitted(models.Calon1)
	m.VoteSubmitted(models.Calon1)
	m.VoteSubmitted(models.Calon3)
	m.StoreError("increment")
	m.TallyFallback()

	if got := testutil.ToFloat64(m.votesSubmitted.WithLabelValues("calon1")); got != 2 {
		t.Errorf("calon1 votes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.votesSubmitted.WithLabelValues("calon2")); got != 0 {
		t.Errorf("calon2 votes = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.storeErrors.WithLabelValues("increment")); got != 1 {
		t.Errorf("store errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.tallyFallbacks); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
}

func TestSeparateRegistries(t *testing.T) {
	// Two routers in one process must not collide on registration
	a, b := New(Namespace), New(Namespace)
	a.VoteSubmitted(models.Calon2)

	if got := testutil.ToFloat64(b.votesSubmitted.WithLabelValues("calon2")); got != 0 {
		t.Errorf("registries leaked: got %v", got)
	}
}

func TestInstrumentAndHandler(t *testing.T) {
	m := New(Namespace)

	h := m.Instrument("/getVotes", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/getVotes", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`calon_http_request_duration_seconds_count{code="418",route="/getVotes"} 1`,
		`calon_votes_submitted_total{candidate="calon4"} 0`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

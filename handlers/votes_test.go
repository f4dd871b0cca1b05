// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/calon-vote/metrics"
	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/store/sqlstore"
	"github.com/danielhkuo/calon-vote/testutil"
)

func newVoteHandler(t *testing.T) (*VoteHandler, *sqlstore.Store) {
	t.Helper()
	s := testutil.SetupTestStore(t)
	return NewVoteHandler(s, metrics.New(metrics.Namespace), testutil.GetTestConfig()), s
}

func submit(h *VoteHandler, calonID string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Submit(w, testutil.MakeRequest("POST", "/submitVote", models.CandidateIDRequest{CalonID: calonID}, nil))
	return w
}

func getVotes(t *testing.T, h *VoteHandler) (models.Tally, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	h.Get(w, httptest.NewRequest("GET", "/getVotes", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var tally models.Tally
	testutil.AssertJSON(t, w, &tally)
	return tally, w
}

func TestSubmitVote(t *testing.T) {
	handler, s := newVoteHandler(t)

	tests := []struct {
		name           string
		calonID        string
		expectedStatus int
	}{
		{"valid calon1", "calon1", http.StatusOK},
		{"valid calon4", "calon4", http.StatusOK},
		{"out of range", "calon5", http.StatusBadRequest},
		{"empty", "", http.StatusBadRequest},
		{"injection", "calon1'; DROP TABLE votes;--", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := submit(handler, tt.calonID)
			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK && w.Body.String() != "Vote submitted" {
				t.Errorf("Expected body 'Vote submitted', got '%s'", w.Body.String())
			}
		})
	}

	t.Run("invalid JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Submit(w, httptest.NewRequest("POST", "/submitVote", strings.NewReader("calon1")))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	// Only the two valid votes landed
	tally, err := s.Counts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tally[models.Calon1] != 1 || tally[models.Calon4] != 1 {
		t.Errorf("Expected one vote each for calon1 and calon4, got %v", tally)
	}
	if tally[models.Calon2] != 0 || tally[models.Calon3] != 0 {
		t.Errorf("Expected rejected votes to leave counters untouched, got %v", tally)
	}
}

func TestGetVotes(t *testing.T) {
	handler, _ := newVoteHandler(t)

	tally, w := getVotes(t, handler)
	for _, id := range models.AllCandidates {
		if tally[id] != 0 {
			t.Errorf("Expected %s = 0, got %d", id, tally[id])
		}
	}
	if len(tally) != 4 {
		t.Errorf("Expected all four candidates, got %v", tally)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Expected Cache-Control no-store, got %q", w.Header().Get("Cache-Control"))
	}
	if w.Header().Get(FallbackHeader) != "" {
		t.Error("Expected no fallback header on a healthy store")
	}

	for _, id := range []string{"calon1", "calon1", "calon1", "calon3"} {
		testutil.AssertStatus(t, submit(handler, id), http.StatusOK)
	}

	tally, _ = getVotes(t, handler)
	want := models.Tally{models.Calon1: 3, models.Calon2: 0, models.Calon3: 1, models.Calon4: 0}
	for id, n := range want {
		if tally[id] != n {
			t.Errorf("Expected %s = %d, got %d", id, n, tally[id])
		}
	}
}

func TestGetVotesFallback(t *testing.T) {
	handler := NewVoteHandler(testutil.BrokenStore{}, metrics.New(metrics.Namespace), testutil.GetTestConfig())

	tally, w := getVotes(t, handler)
	if w.Header().Get(FallbackHeader) != "true" {
		t.Error("Expected fallback header when the store fails")
	}
	for _, id := range models.AllCandidates {
		if n, ok := tally[id]; !ok || n != 0 {
			t.Errorf("Expected %s = 0 in fallback tally, got %v", id, tally)
		}
	}
}

func TestResetVotes(t *testing.T) {
	handler, _ := newVoteHandler(t)

	submit(handler, "calon2")
	submit(handler, "calon2")

	w := httptest.NewRecorder()
	handler.Reset(w, httptest.NewRequest("POST", "/resetVotes", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "Votes reset" {
		t.Errorf("Expected body 'Votes reset', got '%s'", w.Body.String())
	}

	tally, _ := getVotes(t, handler)
	if tally[models.Calon2] != 0 {
		t.Errorf("Expected calon2 = 0 after reset, got %d", tally[models.Calon2])
	}

	// Counting resumes from zero
	submit(handler, "calon2")
	tally, _ = getVotes(t, handler)
	if tally[models.Calon2] != 1 {
		t.Errorf("Expected calon2 = 1, got %d", tally[models.Calon2])
	}
}

func TestVoteStoreFailure(t *testing.T) {
	handler := NewVoteHandler(testutil.BrokenStore{}, metrics.New(metrics.Namespace), testutil.GetTestConfig())

	testutil.AssertStatus(t, submit(handler, "calon1"), http.StatusInternalServerError)

	// Validation still runs before the store is touched
	testutil.AssertStatus(t, submit(handler, "calon0"), http.StatusBadRequest)

	w := httptest.NewRecorder()
	handler.Reset(w, httptest.NewRequest("POST", "/resetVotes", nil))
	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}

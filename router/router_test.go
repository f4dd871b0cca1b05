// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/danielhkuo/calon-vote/cookie"
	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/photo"
	"github.com/danielhkuo/calon-vote/store"
	"github.com/danielhkuo/calon-vote/testutil"
)

func newTestRouter(t *testing.T, backend store.Backend) http.Handler {
	t.Helper()
	return NewRouter(backend, photo.NewInline(), testutil.GetTestVerifier(t), testutil.GetTestConfig())
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		backend        store.Backend
		expectedStatus int
		expectedBody   string
	}{
		{"healthy", testutil.SetupTestStore(t), http.StatusOK, "OK"},
		{"store down", testutil.BrokenStore{}, http.StatusServiceUnavailable, "Store unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestRouter(t, tt.backend)

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if w.Body.String() != tt.expectedBody {
				t.Errorf("Expected body '%s', got '%s'", tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t, testutil.SetupTestStore(t))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "calon-vote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}

	// Only the exact root matches
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux := newTestRouter(t, testutil.SetupTestStore(t))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/submitVote", models.CandidateIDRequest{CalonID: "calon1"}, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("submitVote failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		`calon_votes_submitted_total{candidate="calon1"} 1`,
		`calon_votes_submitted_total{candidate="calon4"} 0`,
		`calon_http_request_duration_seconds_count{code="200",route="/submitVote"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected metrics to contain %q", want)
		}
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t, testutil.SetupTestStore(t))

	// Routes respond; 400, 401, 302 and 403 are all valid handler answers here
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/metrics"},

		// Admin session
		{"POST", "/login"},
		{"GET", "/logout"},
		{"GET", "/pageadmin/"},

		// Candidates
		{"POST", "/saveCandidate"},
		{"GET", "/getCandidate"},
		{"POST", "/uploadPhoto"},
		{"GET", "/photo"},
		{"POST", "/deleteCandidate"},

		// Votes
		{"POST", "/submitVote"},
		{"GET", "/getVotes"},
		{"POST", "/resetVotes"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code == http.StatusMethodNotAllowed || w.Code == http.StatusNotFound {
				t.Errorf("Route %s %s returned %d, expected route handler to exist", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t, testutil.SetupTestStore(t))

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"GET", "/submitVote"},
		{"GET", "/resetVotes"},
		{"PUT", "/saveCandidate"},
		{"DELETE", "/getCandidate"},
		{"GET", "/login"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAdminRoutesForbidden(t *testing.T) {
	mux := newTestRouter(t, testutil.SetupTestStore(t))

	for _, path := range []string{"/saveCandidate", "/uploadPhoto", "/deleteCandidate", "/resetVotes"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest("POST", path, models.CandidateIDRequest{CalonID: "calon1"}, nil))

			if w.Code != http.StatusForbidden {
				t.Errorf("Expected 403 without session, got %d", w.Code)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	t.Run("configured origin", func(t *testing.T) {
		cfg := testutil.GetTestConfig()
		cfg.AllowedOrigin = "https://admin.example.org"
		mux := NewRouter(testutil.SetupTestStore(t), photo.NewInline(), testutil.GetTestVerifier(t), cfg)

		req := httptest.NewRequest("OPTIONS", "/saveCandidate", nil)
		req.Header.Set("Origin", "https://admin.example.org")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204 for preflight, got %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.org" {
			t.Errorf("Expected configured origin, got %q", got)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected credentials to be allowed")
		}
	})

	t.Run("unset origin trusts no other site", func(t *testing.T) {
		cfg := testutil.GetTestConfig()
		cfg.CookieSameSite = cookie.SameSiteNone
		mux := NewRouter(testutil.SetupTestStore(t), photo.NewInline(), testutil.GetTestVerifier(t), cfg)

		req := httptest.NewRequest("OPTIONS", "/resetVotes", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Expected no Access-Control-Allow-Origin, got %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
			t.Errorf("Expected no Access-Control-Allow-Credentials, got %q", got)
		}

		req = testutil.WithAdmin(httptest.NewRequest("POST", "/resetVotes", nil))
		req.Header.Set("Origin", "https://evil.example")
		w = httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Expected cross-site response to stay unreadable, got %q", got)
		}
	})
}

// TestElectionThroughRouter drives the public API with a real cookie jar flow
func TestElectionThroughRouter(t *testing.T) {
	s := testutil.SetupTestStore(t)
	mux := newTestRouter(t, s)

	// Login
	req := httptest.NewRequest("POST", "/login", strings.NewReader(url.Values{"password": {testutil.TestPassword}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed: %d - %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID on logged routes")
	}
	session := w.Result().Cookies()[0]

	// Save and read back
	req = testutil.MakeRequest("POST", "/saveCandidate", testutil.FakeCandidate(models.Calon3), nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Save failed: %d - %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/getCandidate?id=calon3", nil))
	var c models.Candidate
	testutil.AssertJSON(t, w, &c)
	if c.Nama == nil || *c.Nama == "" {
		t.Error("Expected saved nama")
	}

	// Vote and tally
	for i := 0; i < 2; i++ {
		w = httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("POST", "/submitVote", models.CandidateIDRequest{CalonID: "calon3"}, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/getVotes", nil))
	var tally models.Tally
	testutil.AssertJSON(t, w, &tally)
	if tally[models.Calon3] != 2 {
		t.Errorf("Expected calon3 = 2, got %d", tally[models.Calon3])
	}

	// Logout drops the session
	req = httptest.NewRequest("GET", "/logout", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusFound)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/fake"

	"github.com/danielhkuo/calon-vote/auth"
	"github.com/danielhkuo/calon-vote/cliparse"
	"github.com/danielhkuo/calon-vote/cookie"
	"github.com/danielhkuo/calon-vote/db"
	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/store"
	"github.com/danielhkuo/calon-vote/store/sqlstore"
)

// TestPassword is the plaintext admin password in GetTestConfig
const TestPassword = "test-admin-password"

// SetupTestStore creates a fresh sqlite-backed store with the full schema
func SetupTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	s, err := sqlstore.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		StoreBackend:   cliparse.StoreSQL,
		DatabaseType:   db.TypeSQLite,
		StoreTimeout:   5 * time.Second,
		PhotoBackend:   cliparse.PhotoInline,
		MaxPhotoBytes:  2 << 20,
		AdminPassword:  TestPassword,
		CookieSameSite: cookie.SameSiteStrict,
		LogoutRedirect: "/admin/admin.html",
	}
}

// GetTestVerifier returns the verifier matching GetTestConfig
func GetTestVerifier(t *testing.T) auth.Verifier {
	t.Helper()

	v, err := auth.NewVerifier(GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to build verifier: %v", err)
	}
	return v
}

// AdminCookie returns the Cookie header value of a logged-in admin
func AdminCookie() string {
	return auth.SessionCookieName + "=true"
}

// WithAdmin marks a request as coming from a logged-in admin
func WithAdmin(req *http.Request) *http.Request {
	req.Header.Set("Cookie", AdminCookie())
	return req
}

// FakeCandidate returns a save request with generated profile text
func FakeCandidate(id models.CandidateID) models.SaveCandidateRequest {
	nama := fake.FullName()
	visiMisi := fake.Paragraph()
	return models.SaveCandidateRequest{
		CalonID:  string(id),
		Nama:     &nama,
		VisiMisi: &visiMisi,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeUploadRequest builds a multipart /uploadPhoto request
func MakeUploadRequest(t *testing.T, calonID string, data []byte, contentType string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("calonId", calonID); err != nil {
		t.Fatalf("Failed to write calonId field: %v", err)
	}

	if data != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="photo"; filename="photo.jpg"`)
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("Failed to create photo part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("Failed to write photo part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/uploadPhoto", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// BrokenStore is a store.Backend whose every call fails, for fallback paths
type BrokenStore struct{}

var errBroken = store.Unavailable("test", context.DeadlineExceeded)

func (BrokenStore) Upsert(context.Context, models.CandidateID, models.CandidateFields) error {
	return errBroken
}
func (BrokenStore) Get(context.Context, models.CandidateID) (models.Candidate, error) {
	return models.Candidate{}, errBroken
}
func (BrokenStore) Delete(context.Context, models.CandidateID) error { return errBroken }
func (BrokenStore) Increment(context.Context, models.CandidateID) error { return errBroken }
func (BrokenStore) Counts(context.Context) (models.Tally, error) { return nil, errBroken }
func (BrokenStore) Reset(context.Context) error { return errBroken }
func (BrokenStore) Ping(context.Context) error { return errBroken }
func (BrokenStore) Close() error { return nil }
func (BrokenStore) Name() string { return "broken" }

// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/calon-vote/cookie"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("STORE_TIMEOUT", "2s")

	cfg, err := ParseFlags([]string{"-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.StoreBackend != StoreSQL {
		t.Errorf("expected default store sql, got %s", cfg.StoreBackend)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default db type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.PhotoBackend != PhotoInline {
		t.Errorf("expected default photo backend inline, got %s", cfg.PhotoBackend)
	}
	if cfg.MaxPhotoBytes != 2<<20 {
		t.Errorf("expected 2 MiB photo limit, got %d", cfg.MaxPhotoBytes)
	}
	if cfg.StoreTimeout != 2*time.Second {
		t.Errorf("expected store timeout 2s, got %s", cfg.StoreTimeout)
	}
	if cfg.CookieSameSite != cookie.SameSiteStrict {
		t.Errorf("expected SameSite strict by default, got %s", cfg.CookieSameSite)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("COOKIE_SAMESITE", "strict")
	t.Setenv("ALLOWED_ORIGIN", "https://admin.example.org")

	cfg, err := ParseFlags([]string{"-env-file", "", "-p", "8080", "-d", "file:test.db", "-admin-hash", "$2a$10$abc", "-same-site", "none"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.CookieSameSite != cookie.SameSiteNone {
		t.Errorf("CLI should override env: expected SameSite none, got %s", cfg.CookieSameSite)
	}
}

func TestParseFlags_Validation(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{
			name: "missing credential",
			env:  map[string]string{"DATABASE_URL": "file:test.db"},
			want: "ADMIN_PASSWORD",
		},
		{
			name: "missing database url",
			env:  map[string]string{"ADMIN_PASSWORD": "x"},
			want: "database URL required",
		},
		{
			name: "unknown store",
			env:  map[string]string{"ADMIN_PASSWORD": "x", "STORE_BACKEND": "redis"},
			want: "unsupported STORE_BACKEND",
		},
		{
			name: "datastore without project",
			env:  map[string]string{"ADMIN_PASSWORD": "x", "STORE_BACKEND": "datastore"},
			want: "DATASTORE_PROJECT_ID",
		},
		{
			name: "gcs without bucket",
			env:  map[string]string{"ADMIN_PASSWORD": "x", "STORE_BACKEND": "bolt", "PHOTO_BACKEND": "gcs"},
			want: "PHOTO_BUCKET",
		},
		{
			name: "bad photo size",
			env:  map[string]string{"ADMIN_PASSWORD": "x", "STORE_BACKEND": "bolt"},
			args: []string{"-max-photo", "-1"},
			want: "MAX_PHOTO_BYTES",
		},
		{
			name: "bad same site",
			env:  map[string]string{"ADMIN_PASSWORD": "x", "STORE_BACKEND": "bolt", "COOKIE_SAMESITE": "sometimes"},
			want: "SameSite",
		},
		{
			name: "same site none without origin",
			env:  map[string]string{"ADMIN_PASSWORD": "x", "STORE_BACKEND": "bolt", "COOKIE_SAMESITE": "none"},
			want: "requires ALLOWED_ORIGIN",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, k := range []string{"DATABASE_URL", "ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH", "STORE_BACKEND", "PHOTO_BACKEND", "COOKIE_SAMESITE", "DATASTORE_PROJECT_ID", "ALLOWED_ORIGIN"} {
				t.Setenv(k, "")
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := ParseFlags(append([]string{"-env-file", ""}, tc.args...))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %q", tc.want, err.Error())
			}
		})
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "STORE_BACKEND=bolt\nADMIN_PASSWORD=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("ADMIN_PASSWORD", "")
	os.Unsetenv("STORE_BACKEND")
	os.Unsetenv("ADMIN_PASSWORD")

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StoreBackend != StoreBolt {
		t.Errorf("expected bolt from env file, got %s", cfg.StoreBackend)
	}
	if cfg.AdminPassword != "from-file" {
		t.Errorf("expected password from env file, got %q", cfg.AdminPassword)
	}

	// Missing file is not an error
	t.Setenv("ADMIN_PASSWORD", "x")
	if _, err := ParseFlags([]string{"-env-file", filepath.Join(dir, "missing.env")}); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}

func TestConfigStringRedactsSecrets(t *testing.T) {
	cfg := Config{AdminPassword: "hunter2", AdminPasswordHash: "$2a$10$secret"}
	s := cfg.String()
	if strings.Contains(s, "hunter2") || strings.Contains(s, "$2a$10$secret") {
		t.Errorf("config string leaked a secret: %s", s)
	}
}

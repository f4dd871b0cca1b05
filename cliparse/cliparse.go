package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/calon-vote/cookie"
)

// Store backends
const (
	StoreSQL       = "sql"
	StoreBolt      = "bolt"
	StoreDatastore = "datastore"
	StoreMongo     = "mongo"
)

// Photo backends
const (
	PhotoInline = "inline"
	PhotoLocal  = "local"
	PhotoGCS    = "gcs"
	PhotoS3     = "s3"
)

const (
	defaultMaxPhotoBytes = 2 << 20
	defaultStoreTimeout  = 5 * time.Second
)

type Config struct {
	Port    int
	EnvFile string

	// Store
	StoreBackend     string
	DatabaseURL      string
	DatabaseType     string
	BoltPath         string
	DatastoreProject string
	MongoURI         string
	MongoDatabase    string
	StoreTimeout     time.Duration

	// Photos
	PhotoBackend      string
	PhotoDir          string
	PhotoBucket       string
	S3Region          string
	MaxPhotoBytes     int64
	GoogleCredentials string

	// Admin
	AdminPassword     string
	AdminPasswordHash string
	CookieSameSite    cookie.SameSite
	InsecureCookies   bool
	AllowedOrigin     string
	LogoutRedirect    string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var sameSite, maxPhoto, timeout string

	fs := flag.NewFlagSet("calon-vote", flag.ContinueOnError)

	// Network and store config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.EnvFile, "env-file", ".env", "Optional dotenv file")
	fs.StringVar(&cfg.StoreBackend, "s", "", "Store backend (sql, bolt, datastore, mongo)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.PhotoBackend, "photos", "", "Photo backend (inline, local, gcs, s3)")
	fs.StringVar(&maxPhoto, "max-photo", "", "Max photo size in bytes")
	fs.StringVar(&timeout, "store-timeout", "", "Timeout for each store call")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Plaintext admin password (prefer env)")
	fs.StringVar(&cfg.AdminPasswordHash, "admin-hash", "", "Bcrypt admin password hash (prefer env)")
	fs.StringVar(&sameSite, "same-site", "", "Session cookie SameSite (strict, lax, none)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	cfg.StoreBackend = strings.ToLower(firstNonEmpty(cfg.StoreBackend, os.Getenv("STORE_BACKEND"), StoreSQL))
	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), "sqlite")
	cfg.BoltPath = firstNonEmpty(os.Getenv("BOLT_PATH"), "calon.db")
	cfg.DatastoreProject = os.Getenv("DATASTORE_PROJECT_ID")
	cfg.MongoURI = os.Getenv("MONGO_URI")
	cfg.MongoDatabase = firstNonEmpty(os.Getenv("MONGO_DATABASE"), "calon")

	switch cfg.StoreBackend {
	case StoreSQL:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
			return Config{}, fmt.Errorf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
		}
	case StoreBolt:
	case StoreDatastore:
		if cfg.DatastoreProject == "" {
			return Config{}, errors.New("DATASTORE_PROJECT_ID required for datastore backend")
		}
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGO_URI required for mongo backend")
		}
	default:
		return Config{}, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}

	timeout = firstNonEmpty(timeout, os.Getenv("STORE_TIMEOUT"))
	cfg.StoreTimeout = defaultStoreTimeout
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid STORE_TIMEOUT %q", timeout)
		}
		cfg.StoreTimeout = d
	}

	// Photos
	cfg.PhotoBackend = strings.ToLower(firstNonEmpty(cfg.PhotoBackend, os.Getenv("PHOTO_BACKEND"), PhotoInline))
	cfg.PhotoDir = firstNonEmpty(os.Getenv("PHOTO_DIR"), "photos")
	cfg.PhotoBucket = os.Getenv("PHOTO_BUCKET")
	cfg.S3Region = firstNonEmpty(os.Getenv("S3_REGION"), "sa-east-1")
	cfg.GoogleCredentials = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

	switch cfg.PhotoBackend {
	case PhotoInline, PhotoLocal:
	case PhotoGCS, PhotoS3:
		if cfg.PhotoBucket == "" {
			return Config{}, fmt.Errorf("PHOTO_BUCKET required for %s photo backend", cfg.PhotoBackend)
		}
	default:
		return Config{}, fmt.Errorf("unsupported PHOTO_BACKEND %q", cfg.PhotoBackend)
	}

	maxPhoto = firstNonEmpty(maxPhoto, os.Getenv("MAX_PHOTO_BYTES"))
	cfg.MaxPhotoBytes = defaultMaxPhotoBytes
	if maxPhoto != "" {
		n, err := strconv.ParseInt(maxPhoto, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_PHOTO_BYTES %q", maxPhoto)
		}
		cfg.MaxPhotoBytes = n
	}

	// Secrets - at least one credential MUST be provided
	cfg.AdminPassword = firstNonEmpty(cfg.AdminPassword, os.Getenv("ADMIN_PASSWORD"))
	cfg.AdminPasswordHash = firstNonEmpty(cfg.AdminPasswordHash, os.Getenv("ADMIN_PASSWORD_HASH"))
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return Config{}, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH required")
	}

	ss, err := cookie.ParseSameSite(firstNonEmpty(sameSite, os.Getenv("COOKIE_SAMESITE"), "strict"))
	if err != nil {
		return Config{}, err
	}
	cfg.CookieSameSite = ss
	cfg.InsecureCookies = os.Getenv("INSECURE_COOKIES") == "true"
	cfg.AllowedOrigin = os.Getenv("ALLOWED_ORIGIN")
	// A cross-site cookie is only useful to a trusted cross-site origin
	if cfg.CookieSameSite == cookie.SameSiteNone && cfg.AllowedOrigin == "" {
		return Config{}, errors.New("COOKIE_SAMESITE=none requires ALLOWED_ORIGIN")
	}
	cfg.LogoutRedirect = firstNonEmpty(os.Getenv("LOGOUT_REDIRECT"), "/admin/admin.html")

	return cfg, nil
}

// String renders the config for startup logs with secrets redacted
func (c Config) String() string {
	return fmt.Sprintf("port=%d store=%s db_type=%s photos=%s max_photo=%d store_timeout=%s same_site=%s origin=%q admin_password=%s admin_hash=%s",
		c.Port, c.StoreBackend, c.DatabaseType, c.PhotoBackend, c.MaxPhotoBytes, c.StoreTimeout,
		c.CookieSameSite, c.AllowedOrigin, redact(c.AdminPassword), redact(c.AdminPasswordHash))
}

// loadEnvFile loads a dotenv file without overriding variables already set
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func redact(secret string) string {
	if secret == "" {
		return "unset"
	}
	return "set"
}

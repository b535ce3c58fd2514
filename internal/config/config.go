package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by the record store bootstrap.
const (
	StorageDriverFile     = "file"
	StorageDriverDatabase = "database"
)

// Image drivers understood by the dish image bootstrap.
const (
	ImageDriverLocal = "local"
	ImageDriverS3    = "s3"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Images   ImagesConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// AuthConfig groups session settings and the back office secret.
type AuthConfig struct {
	Session       SessionConfig
	AdminPassword string
}

// SessionConfig controls the session cookie.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// StorageConfig selects where the record collections live.
type StorageConfig struct {
	Driver  string
	DataDir string
}

// ImagesConfig selects where uploaded dish images are written.
type ImagesConfig struct {
	Driver        string
	Dir           string
	Bucket        string
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Load inspects the environment and builds a Config value. Outside production a
// .env file in the working directory is loaded first when present.
func Load() (Config, error) {
	if !strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		_ = godotenv.Load()
	}

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 0),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 0),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 0),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 0),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
	}

	cfg.Logging = LoggingConfig{
		Level:  firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		Format: firstNonEmpty(os.Getenv("LOG_FORMAT"), "text"),
	}

	cfg.Auth = AuthConfig{
		Session: SessionConfig{
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), 12*time.Hour),
			CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), "burgerexpress_session"),
			CookieDomain: strings.TrimSpace(os.Getenv("SESSION_COOKIE_DOMAIN")),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), true),
		},
		AdminPassword: firstNonEmpty(os.Getenv("ADMIN_PASSWORD"), "123"),
	}

	cfg.Storage = StorageConfig{
		Driver:  strings.ToLower(firstNonEmpty(os.Getenv("STORAGE_DRIVER"), StorageDriverFile)),
		DataDir: firstNonEmpty(os.Getenv("STORAGE_DATA_DIR"), "data"),
	}

	cfg.Images = ImagesConfig{
		Driver:        strings.ToLower(firstNonEmpty(os.Getenv("IMAGES_DRIVER"), ImageDriverLocal)),
		Dir:           firstNonEmpty(os.Getenv("IMAGES_DIR"), "images"),
		Bucket:        strings.TrimSpace(os.Getenv("IMAGES_S3_BUCKET")),
		Endpoint:      strings.TrimSpace(os.Getenv("IMAGES_S3_ENDPOINT")),
		Region:        firstNonEmpty(os.Getenv("IMAGES_S3_REGION"), "auto"),
		AccessKey:     strings.TrimSpace(os.Getenv("IMAGES_S3_ACCESS_KEY")),
		SecretKey:     strings.TrimSpace(os.Getenv("IMAGES_S3_SECRET_KEY")),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("IMAGES_PUBLIC_BASE_URL")), "/"),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}

	switch cfg.Storage.Driver {
	case StorageDriverFile, StorageDriverDatabase:
	default:
		return Config{}, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	switch cfg.Images.Driver {
	case ImageDriverLocal:
	case ImageDriverS3:
		if cfg.Images.Bucket == "" {
			return Config{}, fmt.Errorf("IMAGES_S3_BUCKET must be set for the s3 image driver")
		}
	default:
		return Config{}, fmt.Errorf("unknown image driver: %s", cfg.Images.Driver)
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

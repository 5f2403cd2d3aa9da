package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is resolved once at startup and handed to constructors. Nothing
// below cmd/ reads the environment.
type Config struct {
	HTTPPort        string
	SiteURL         string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	ContentfulSpaceID     string
	ContentfulAccessToken string
	ContentfulEnvironment string
	ContentfulBaseURL     string

	// BackendURL and BackendAnonKey address the create-donation function.
	BackendURL     string
	BackendAnonKey string

	StripeSecretKey     string
	StripeWebhookSecret string

	DB DBConfig

	RedisAddr     string
	RedisPassword string

	// GalleryRefreshInterval of zero disables background refresh.
	GalleryRefreshInterval time.Duration

	KafkaBrokers []string

	ContactEmail string
}

type DBConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	MigrationsDirPath string
}

func Load() (*Config, error) {
	var errs []error

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid DB_PORT: %w", err))
	}
	requestTimeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err))
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err))
	}
	galleryRefresh, err := time.ParseDuration(getEnv("GALLERY_REFRESH_INTERVAL", "5m"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid GALLERY_REFRESH_INTERVAL: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		SiteURL:         strings.TrimRight(getEnv("SITE_URL", "http://localhost:8080"), "/"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RequestTimeout:  requestTimeout,
		ShutdownTimeout: shutdownTimeout,

		ContentfulSpaceID:     os.Getenv("CONTENTFUL_SPACE_ID"),
		ContentfulAccessToken: os.Getenv("CONTENTFUL_ACCESS_TOKEN"),
		ContentfulEnvironment: getEnv("CONTENTFUL_ENVIRONMENT", "master"),
		ContentfulBaseURL:     getEnv("CONTENTFUL_BASE_URL", "https://cdn.contentful.com"),

		BackendURL:     strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		BackendAnonKey: os.Getenv("BACKEND_ANON_KEY"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		DB: DBConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              dbPort,
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			Name:              getEnv("DB_NAME", "museum"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./internal/repository/migrations"),
		},

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		GalleryRefreshInterval: galleryRefresh,

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),

		ContactEmail: getEnv("CONTACT_EMAIL", "jaxsen@jxsen.com"),
	}, nil
}

// ValidateServe checks the keys the HTTP server cannot start without. The
// donation backend and webhook secrets are deliberately not required here:
// their absence is reported per request as "unconfigured" and "bad request".
func (c *Config) ValidateServe() error {
	var errs []error
	if c.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT must be set"))
	}
	if c.ContentfulSpaceID == "" {
		errs = append(errs, errors.New("CONTENTFUL_SPACE_ID must be set"))
	}
	if c.ContentfulAccessToken == "" {
		errs = append(errs, errors.New("CONTENTFUL_ACCESS_TOKEN must be set"))
	}
	if c.DB.Host == "" || c.DB.Name == "" {
		errs = append(errs, errors.New("DB_HOST and DB_NAME must be set"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// ValidateDonate leaves BACKEND_URL and BACKEND_ANON_KEY unchecked so the
// donation client can report them as a configuration error with the contact
// fallback.
func (c *Config) ValidateDonate() error {
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) ValidateMigrate() error {
	if c.DB.Host == "" || c.DB.Name == "" {
		return errors.New("DB_HOST and DB_NAME must be set")
	}
	if c.DB.MigrationsDirPath == "" {
		return errors.New("MIGRATIONS_PATH must be set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

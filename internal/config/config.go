package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port            string
	MongoURI        string
	MongoDB         string
	SecretKey       string
	TokenTTL        time.Duration
	TokenIssuer     string
	PostgresDSN     string
	RedisAddr       string
	RedisPassword   string
	AllowedOrigins  []string
	LogLevel        string
	Environment     string
	ShutdownTimeout time.Duration
	OTLPEndpoint    string

	// StrictReferentialCheck verifies a review's movie exists before insert.
	StrictReferentialCheck bool
	// RequireAuth gates the movie and review routes behind a JWT.
	RequireAuth bool
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		MongoURI:       getenv("MONGO_URI", ""),
		MongoDB:        getenv("MONGO_DB", "movies"),
		SecretKey:      getenv("SECRET_KEY", ""),
		TokenIssuer:    getenv("TOKEN_ISSUER", "movies-api"),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		AllowedOrigins: getenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Environment:    getenv("ENVIRONMENT", "development"),
		OTLPEndpoint:   getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	var err error
	if cfg.TokenTTL, err = getenvDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.StrictReferentialCheck, err = getenvBool("STRICT_REFERENTIAL_CHECK", true); err != nil {
		errs = append(errs, err)
	}
	if cfg.RequireAuth, err = getenvBool("REQUIRE_AUTH", true); err != nil {
		errs = append(errs, err)
	}

	if cfg.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if cfg.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid port number, got %q", cfg.Port))
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	return d, nil
}

func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

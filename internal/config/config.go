// Package config reads the sqlgen settings shared by the CLI and the server
// from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"sqlgen/internal/domain"
	"sqlgen/internal/storage"
)

// Config holds the configuration shared by the CLI and the HTTP server.
type Config struct {
	Metadata   string      // metadata URI (default "metadata.yaml")
	Mode       domain.Mode // default statement mode (default literal)
	ListenAddr string      // HTTP listen address (default ":8080")
	LogLevel   string      // log level: debug, info, warn, error (default "info")
	Env        string      // environment: "development" (default) or "production"

	// Per-client rate limit
	RateLimitRPS   float64 // sustained requests per second (default 50)
	RateLimitBurst int     // burst capacity (default 100)

	// CORS
	CORSAllowedOrigins []string // allowed origins (default ["*"], none in production)

	// BatchConcurrency bounds the batch fan-out (default 4).
	BatchConcurrency int

	// Object storage credentials are optional; remote fetchers fail lazily
	// when their scheme is used without them.
	S3KeyID               string
	S3Secret              string
	S3Endpoint            string
	S3Region              string
	AzureConnectionString string
	GCSKeyFile            string

	// Warnings lists settings that were ignored or are incomplete. The
	// caller logs them once its logger exists.
	Warnings []string
}

// Defaults for unset variables.
const (
	defaultMetadata   = "metadata.yaml"
	defaultListenAddr = ":8080"
	defaultLogLevel   = "info"
	defaultEnv        = "development"
	defaultRPS        = 50
	defaultBurst      = 100
	defaultBatch      = 4
)

var slogLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// SlogLevel returns the slog level for LogLevel, info when unrecognised.
func (c *Config) SlogLevel() slog.Level {
	if lvl, ok := slogLevels[strings.ToLower(c.LogLevel)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// IsProduction reports whether ENV is "production", case-insensitively.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// HasS3Config reports whether both halves of the S3 key pair are set.
func (c *Config) HasS3Config() bool {
	return c.S3KeyID != "" && c.S3Secret != ""
}

// StorageOptions returns the credentials for remote metadata fetchers.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		S3KeyID:               c.S3KeyID,
		S3Secret:              c.S3Secret,
		S3Endpoint:            c.S3Endpoint,
		S3Region:              c.S3Region,
		AzureConnectionString: c.AzureConnectionString,
		GCSKeyFile:            c.GCSKeyFile,
	}
}

// LoadFromEnv builds a Config from environment variables. Malformed numbers
// fall back to their default with a warning; a bad SQLGEN_MODE or a CORS
// wildcard in production is an error.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Metadata:              envOr("SQLGEN_METADATA", defaultMetadata),
		ListenAddr:            envOr("LISTEN_ADDR", defaultListenAddr),
		LogLevel:              envOr("LOG_LEVEL", defaultLogLevel),
		Env:                   envOr("ENV", defaultEnv),
		S3KeyID:               os.Getenv("S3_KEY_ID"),
		S3Secret:              os.Getenv("S3_SECRET"),
		S3Endpoint:            os.Getenv("S3_ENDPOINT"),
		S3Region:              os.Getenv("S3_REGION"),
		AzureConnectionString: os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
		GCSKeyFile:            os.Getenv("GCS_KEY_FILE"),
		CORSAllowedOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	if v := os.Getenv("SQLGEN_MODE"); v != "" {
		mode, err := domain.ParseMode(v)
		if err != nil {
			return nil, fmt.Errorf("SQLGEN_MODE: %w", err)
		}
		cfg.Mode = mode
	}

	cfg.RateLimitRPS = cfg.positiveFloat("RATE_LIMIT_RPS", defaultRPS)
	cfg.RateLimitBurst = cfg.positiveInt("RATE_LIMIT_BURST", defaultBurst)
	cfg.BatchConcurrency = cfg.positiveInt("BATCH_CONCURRENCY", defaultBatch)

	switch {
	case !cfg.IsProduction() && len(cfg.CORSAllowedOrigins) == 0:
		cfg.CORSAllowedOrigins = []string{"*"}
	case cfg.IsProduction() && slices.Contains(cfg.CORSAllowedOrigins, "*"):
		return nil, errors.New("CORS wildcard (*) is not allowed in production (ENV=production)")
	}

	if (cfg.S3KeyID == "") != (cfg.S3Secret == "") {
		cfg.Warnings = append(cfg.Warnings, "S3_KEY_ID and S3_SECRET must be set together; s3:// metadata will be unavailable")
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// positiveInt and positiveFloat read key as a number greater than zero,
// keeping def and recording a warning for anything else.
func (c *Config) positiveInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.warnIgnored(key, v, def)
		return def
	}
	return n
}

func (c *Config) positiveFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		c.warnIgnored(key, v, def)
		return def
	}
	return f
}

func (c *Config) warnIgnored(key, value string, def any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("ignoring invalid %s %q, using %v", key, value, def))
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadDotEnv applies KEY=VALUE lines from path to the process environment,
// leaving variables that are already set untouched. Blank lines, # comments
// and lines without '=' are skipped; an "export " prefix and matching outer
// quotes are removed. A missing file is not an error.
func LoadDotEnv(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := dotEnvPair(line)
		if !ok || os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s from %s: %w", key, path, err)
		}
	}
	return nil
}

func dotEnvPair(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return "", "", false
	}
	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
	value = strings.TrimSpace(value)
	if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '\'') && value[n-1] == value[0] {
		value = value[1 : n-1]
	}
	return key, value, key != ""
}

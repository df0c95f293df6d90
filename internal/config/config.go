// Package config provides configuration loading from environment variables.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Validation defaults
const (
	DefaultValidateWorkers     = 8
	DefaultSchemaCacheMaxItems = 256
)

// DefaultIgnoreHeaderValues are headers whose values vary between otherwise
// identical exchanges. Their presence is still checked, their values are not.
var DefaultIgnoreHeaderValues = []string{
	"date",
	"expires",
	"last-modified",
	"etag",
	"age",
	"content-length",
	"set-cookie",
	"x-request-id",
	"x-correlation-id",
	"x-trace-id",
	"x-amzn-requestid",
	"x-amzn-trace-id",
	"cf-ray",
	"x-cache",
}

// Config holds all configuration for a harcheck run.
type Config struct {
	APIDescriptionPath string // -a / --apidescription
	LogPath            string // -l / --log

	ValidateWorkers     int      // VALIDATE_WORKERS, default 8
	SchemaCacheMaxItems int      // SCHEMA_CACHE_MAX_ITEMS, default 256
	IgnoreHeaderValues  []string // IGNORE_HEADER_VALUES, comma separated

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "warn"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads an optional .env file and then the environment.
// A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv reads configuration from environment variables with sensible defaults.
func FromEnv() *Config {
	return &Config{
		ValidateWorkers:     getEnvInt("VALIDATE_WORKERS", DefaultValidateWorkers),
		SchemaCacheMaxItems: getEnvInt("SCHEMA_CACHE_MAX_ITEMS", DefaultSchemaCacheMaxItems),
		IgnoreHeaderValues:  getEnvList("IGNORE_HEADER_VALUES", DefaultIgnoreHeaderValues),

		LogLevel:      getEnvString("LOG_LEVEL", "warn"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

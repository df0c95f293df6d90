package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, DefaultValidateWorkers, cfg.ValidateWorkers)
	assert.Equal(t, DefaultSchemaCacheMaxItems, cfg.SchemaCacheMaxItems)
	assert.Equal(t, DefaultIgnoreHeaderValues, cfg.IgnoreHeaderValues)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
	assert.True(t, cfg.LogCompress)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("VALIDATE_WORKERS", "3")
	t.Setenv("SCHEMA_CACHE_MAX_ITEMS", "16")
	t.Setenv("IGNORE_HEADER_VALUES", " Date, X-Custom ,,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_COMPRESS", "off")

	cfg := FromEnv()

	assert.Equal(t, 3, cfg.ValidateWorkers)
	assert.Equal(t, 16, cfg.SchemaCacheMaxItems)
	assert.Equal(t, []string{"date", "x-custom"}, cfg.IgnoreHeaderValues)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.LogCompress)
}

func TestFromEnv_InvalidIntsFallBack(t *testing.T) {
	t.Setenv("VALIDATE_WORKERS", "lots")
	t.Setenv("SCHEMA_CACHE_MAX_ITEMS", "-1")

	cfg := FromEnv()

	assert.Equal(t, DefaultValidateWorkers, cfg.ValidateWorkers)
	assert.Equal(t, DefaultSchemaCacheMaxItems, cfg.SchemaCacheMaxItems)
}

func TestLoad_WithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
}

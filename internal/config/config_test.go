package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("UPSTREAM_BASE_URL", "http://loom:8000")
	t.Setenv("ENRICH_CONCURRENCY", "8")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Database.Enabled())
	assert.True(t, cfg.MinIO.UseSSL)
	assert.False(t, cfg.MinIO.Enabled())
	assert.Equal(t, "http://loom:8000", cfg.Upstream.BaseURL)
	assert.Equal(t, 8, cfg.Upstream.EnrichConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout())
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "Asia/Jakarta"}
	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestUpstreamTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), UpstreamConfig{TimeoutSec: 0}.Timeout())
	assert.Equal(t, 5*time.Second, UpstreamConfig{TimeoutSec: 5}.Timeout())
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_TIMEZONE", "LOG_LEVEL", "UPSTREAM_BASE_URL", "DB_HOST", "MINIO_ENDPOINT", "EXPORT_URL_EXPIRY_SEC"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8000", cfg.Upstream.BaseURL)
	assert.Zero(t, cfg.Upstream.EnrichConcurrency)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.MinIO.Enabled())
	assert.Equal(t, 900, cfg.MinIO.URLExpirySec)
}

func TestEnvHelpers(t *testing.T) {
	const key = "FILEVIEW_TEST_VAR"

	tests := []struct {
		name  string
		value string
		check func(t *testing.T)
	}{
		{"string set", "hg38", func(t *testing.T) { assert.Equal(t, "hg38", getEnv(key, "hg19")) }},
		{"string unset", "", func(t *testing.T) { assert.Equal(t, "hg19", getEnv(key, "hg19")) }},
		{"bool true", "true", func(t *testing.T) { assert.True(t, getEnvBool(key, false)) }},
		{"bool false", "0", func(t *testing.T) { assert.False(t, getEnvBool(key, true)) }},
		{"bool malformed", "yes please", func(t *testing.T) { assert.True(t, getEnvBool(key, true)) }},
		{"int set", "123", func(t *testing.T) { assert.Equal(t, 123, getEnvInt(key, 0)) }},
		{"int malformed", "12a", func(t *testing.T) { assert.Equal(t, 10, getEnvInt(key, 10)) }},
		{"int unset", "", func(t *testing.T) { assert.Equal(t, 10, getEnvInt(key, 10)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.value)
			tt.check(t)
		})
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "STORAGE", "MIGRATE", "SESSION_SECRET", "SESSION_TTL", "REQUIRE_AUTH",
		"PHOTO_BACKEND", "UPLOAD_DIR", "MAX_UPLOAD_BYTES", "LOGIN_RATE_RPS", "LOGIN_RATE_BURST", "TRUST_PROXY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, StorageMySQL, cfg.Storage)
	assert.True(t, cfg.Migrate)
	assert.Equal(t, defaultSessionSecret, cfg.SessionSecret)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.RequireAuth)
	assert.Equal(t, PhotoBackendDisk, cfg.PhotoBackend)
	assert.Equal(t, "static/uploads", cfg.UploadDir)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 5.0, cfg.LoginRateRPS)
	assert.Equal(t, 10, cfg.LoginRateBurst)
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE", StorageMemory)
	t.Setenv("MIGRATE", "false")
	t.Setenv("SESSION_SECRET", "another-secret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("REQUIRE_AUTH", "false")
	t.Setenv("UPLOAD_DIR", "/tmp/fotos")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("TRUST_PROXY", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.False(t, cfg.Migrate)
	assert.Equal(t, "another-secret", cfg.SessionSecret)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.RequireAuth)
	assert.Equal(t, "/tmp/fotos", cfg.UploadDir)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.True(t, cfg.TrustProxy)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("REQUIRE_AUTH", "maybe")
	t.Setenv("MAX_UPLOAD_BYTES", "-1")

	cfg := Load()

	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.RequireAuth)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}

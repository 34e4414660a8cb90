package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadAppliesDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg := Load()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "erp", cfg.DBName)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 6379, cfg.RedisPort)
	assert.Equal(t, 5, cfg.PushTimeoutSeconds)
	assert.Equal(t, "mailto:soporte@ayg.com", cfg.VAPIDSubscriber)
	assert.Equal(t, "/logo-a&g.svg", cfg.PushIconPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("VAPID_PUBLIC_KEY", "pub-key")
	t.Setenv("VAPID_PRIVATE_KEY", "priv-key")
	t.Setenv("PUSH_TIMEOUT_SECONDS", "12")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "s3cret", cfg.DBPassword)
	assert.Equal(t, "pub-key", cfg.VAPIDPublicKey)
	assert.Equal(t, "priv-key", cfg.VAPIDPrivateKey)
	assert.Equal(t, 12, cfg.PushTimeoutSeconds)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestGetReturnsCachedValue(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("APP_PORT", "7070")
	first := Load()
	assert.Equal(t, "7070", first.AppPort)

	// A later env change must not leak into the cached config.
	t.Setenv("APP_PORT", "7071")
	assert.Equal(t, "7070", Get().AppPort)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , b ,"))
	assert.Empty(t, splitAndTrim(" , "))
}

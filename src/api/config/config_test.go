package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"MYSQL_DSN", "REDIS_URL", "JWT_SECRET", "PORT", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, "8000", cfg.Port)
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	require.NotEmpty(t, cfg.MySQLDSN)
}

func TestLoadSplitsOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("JWT_SECRET", "supersecret")

	cfg := Load()
	require.Equal(t, "9999", cfg.Port)
	require.Equal(t, "supersecret", cfg.JWTSecret)
}

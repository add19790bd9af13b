package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "APP_ENV", "LOG_LEVEL", "FRONTEND_URL", "TIMEZONE",
		"API_BASE_URL", "API_TIMEOUT", "JWT_SECRET_KEY", "JWT_ACCESS_EXPIRATION_TIME",
		"SESSION_STORE", "SESSION_SECRET", "SESSION_CLEANUP_INTERVAL",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "DB_MAX_CONNS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.App.FrontendURLs)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY is required")
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("FRONTEND_URL", "https://admin.example.com, https://staging.example.com")
	t.Setenv("API_BASE_URL", "https://api.example.com/api")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SESSION_STORE", "Postgres")
	t.Setenv("SESSION_SECRET", "seal")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("TIMEZONE", "Asia/Jakarta")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, []string{"https://admin.example.com", "https://staging.example.com"}, cfg.App.FrontendURLs)
	assert.Equal(t, SessionStorePostgres, cfg.Session.Store)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestFromEnv_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"APP_PORT":                   "eighty",
		"API_TIMEOUT":                "soon",
		"JWT_ACCESS_EXPIRATION_TIME": "1 day",
		"SESSION_CLEANUP_INTERVAL":   "often",
		"DB_PORT":                    "pg",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:     AppConfig{Timezone: "UTC"},
			API:     APIConfig{BaseURL: "http://localhost:5000/api", Timeout: time.Second},
			JWT:     JWTConfig{Secret: "s", AccessExpiration: time.Hour},
			Session: SessionConfig{Store: SessionStoreMemory},
		}
	}
	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.API.BaseURL = "localhost:5000"
	assert.ErrorContains(t, cfg.Validate(), "API_BASE_URL")

	cfg = valid()
	cfg.Session.Store = "redis"
	assert.ErrorContains(t, cfg.Validate(), "SESSION_STORE")

	cfg = valid()
	cfg.Session.Store = SessionStorePostgres
	err := cfg.Validate()
	assert.ErrorContains(t, err, "SESSION_SECRET")
	assert.ErrorContains(t, err, "DB_PASSWORD")

	cfg = valid()
	cfg.App.Timezone = "Mars/Olympus"
	assert.ErrorContains(t, cfg.Validate(), "TIMEZONE")
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "admin", Password: "p@ss", Name: "hris_admin", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://admin:p%40ss@db:5432/hris_admin?sslmode=disable", cfg.DatabaseURL())
}

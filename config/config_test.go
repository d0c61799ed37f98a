package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	// Empty values fall back to defaults for the optional settings.
	t.Setenv("REDIS_HOST", "")
	t.Setenv("PUBLIC_TRACKS_ENABLED", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")
	t.Setenv("HTTP_ADDR", ":3000")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_NAME", "discogs")
	t.Setenv("AUTH_USERNAME", "admin")
	t.Setenv("AUTH_PASSWORD", "default")

	cfg := FromEnv()

	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "admin", cfg.AuthUsername)
	assert.Equal(t, "default", cfg.AuthPassword)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.PublicTracksEnabled)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/tracks.db")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("PUBLIC_TRACKS_ENABLED", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")

	cfg := FromEnv()

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/tracks.db", cfg.SQLitePath)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.PublicTracksEnabled)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnv_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("PUBLIC_TRACKS_ENABLED", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.PublicTracksEnabled)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTPAddr:     ":3000",
			DBDriver:     DriverMySQL,
			DBHost:       "127.0.0.1",
			DBName:       "discogs",
			AuthUsername: "admin",
			AuthPassword: "default",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid mysql", mutate: func(c *Config) {}},
		{name: "valid sqlite", mutate: func(c *Config) { c.DBDriver = DriverSQLite; c.SQLitePath = "x.db" }},
		{name: "sqlite without path", mutate: func(c *Config) { c.DBDriver = DriverSQLite }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "mongo" }, wantErr: true},
		{name: "mysql without host", mutate: func(c *Config) { c.DBHost = "" }, wantErr: true},
		{name: "empty username", mutate: func(c *Config) { c.AuthUsername = "" }, wantErr: true},
		{name: "no password at all", mutate: func(c *Config) { c.AuthPassword = "" }, wantErr: true},
		{name: "hash only", mutate: func(c *Config) { c.AuthPassword = ""; c.AuthPasswordHash = "$2a$10$abc" }},
		{name: "empty listen address", mutate: func(c *Config) { c.HTTPAddr = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

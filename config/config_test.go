package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "file", cfg.LocalStore)
	assert.Equal(t, "", cfg.DBMode)
	assert.Equal(t, "sqlite", cfg.RemoteStore)
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeout)
	assert.False(t, cfg.MirrorWrites)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Seed)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddr())
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("WUROUD_SERVER_HOST", "127.0.0.1")
	t.Setenv("WUROUD_SERVER_PORT", "3000")
	t.Setenv("WUROUD_ENV", "production")
	t.Setenv("WUROUD_LOG_LEVEL", "debug")
	t.Setenv("WUROUD_LOG_FORMAT", "json")
	t.Setenv("WUROUD_DB_MODE", "firebase")
	t.Setenv("WUROUD_REMOTE_STORE", "redis")
	t.Setenv("WUROUD_REMOTE_TIMEOUT", "750ms")
	t.Setenv("WUROUD_MIRROR_WRITES", "true")
	t.Setenv("WUROUD_ALLOWED_ORIGINS", "https://wuroud.com,https://admin.wuroud.com")
	t.Setenv("WUROUD_SEED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:3000", cfg.ServerAddr())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "firebase", cfg.DBMode)
	assert.Equal(t, "redis", cfg.RemoteStore)
	assert.Equal(t, 750*time.Millisecond, cfg.RemoteTimeout)
	assert.True(t, cfg.MirrorWrites)
	assert.Equal(t, []string{"https://wuroud.com", "https://admin.wuroud.com"}, cfg.AllowedOrigins)
	assert.False(t, cfg.Seed)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"WUROUD_LOG_FORMAT", "xml"},
		{"WUROUD_LOCAL_STORE", "indexeddb"},
		{"WUROUD_REMOTE_STORE", "firestore"},
		{"WUROUD_DB_MODE", "cloud"},
		{"WUROUD_SERVER_PORT", "70000"},
		{"WUROUD_SERVER_PORT", "not-a-number"},
		{"WUROUD_RATE_LIMIT", "-1"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, Config{LogLevel: in}.Level(), in)
	}
}

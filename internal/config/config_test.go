package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, slog.LevelInfo, cfg.App.Level())
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout.Duration())
	assert.Equal(t, 90*time.Second, cfg.HTTP.WriteTimeout.Duration())
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "lumina_v2_core", cfg.Store.Key)
	assert.Equal(t, []string{"lumina_tasks_v2", "lumina_tasks"}, cfg.Store.Legacy())
	assert.Equal(t, 60*time.Second, cfg.Install.WaitTimeout.Duration())
	assert.Zero(t, cfg.Redis.TTL.Duration())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://:pw@redis.local:6380/3")
	t.Setenv("HTTP_READ_TIMEOUT", "15")
	t.Setenv("INSTALL_WAIT_TIMEOUT", "2m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis.local:6380", cfg.Redis.Addr)
	assert.Equal(t, "pw", cfg.Redis.Password)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout.Duration())
	assert.Equal(t, 2*time.Minute, cfg.Install.WaitTimeout.Duration())
	assert.Equal(t, slog.LevelDebug, cfg.App.Level())
}

func TestLoadRejectsInvalidBackends(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORE_BACKEND": "floppy"}},
		{"redis without address", map[string]string{"STORE_BACKEND": "redis"}},
		{"postgres without dsn", map[string]string{"STORE_BACKEND": "postgres"}},
		{"bad redis url", map[string]string{"REDIS_URL": "http://nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, AppConfig{LogLevel: "chatty"}.Level())
	assert.Equal(t, slog.LevelWarn, AppConfig{LogLevel: "warn"}.Level())
}

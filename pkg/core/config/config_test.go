package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "REDIS_ADDR", "REDIS_TTL", "FIO_B_SCHEDULE_PATH", "REGIONS_PATH", "PROMPTS_DIR", "BATCH_CONCURRENCY", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultRedisTTL, cfg.RedisTTL)
	assert.Equal(t, DefaultBatchConcurrency, cfg.BatchConcurrency)
	assert.Contains(t, cfg.FioBSchedulePath, "fio_b_schedule.yaml")
	assert.Contains(t, cfg.PromptsDir, "prompts")
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.LogLevelDebug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TTL", "15m")
	t.Setenv("BATCH_CONCURRENCY", "16")
	t.Setenv("FIO_B_SCHEDULE_PATH", "/etc/solar/schedule.hjson")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 15*time.Minute, cfg.RedisTTL)
	assert.Equal(t, 16, cfg.BatchConcurrency)
	assert.Equal(t, "/etc/solar/schedule.hjson", cfg.FioBSchedulePath)
	assert.True(t, cfg.LogLevelDebug)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("REDIS_TTL", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("REDIS_TTL", "")
	t.Setenv("BATCH_CONCURRENCY", "0")
	_, err = Load()
	assert.Error(t, err)
}

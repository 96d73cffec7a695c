// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the settings shared by the binaries.
type Config struct {
	Port             string
	DatabaseURL      string
	RedisAddr        string
	RedisTTL         time.Duration
	FioBSchedulePath string
	RegionsPath      string
	PromptsDir       string
	GeminiAPIKey     string
	GeminiModel      string
	BatchConcurrency int
	LogLevelDebug    bool
}

// Defaults.
const (
	DefaultPort             = "8080"
	DefaultRedisTTL         = time.Hour
	DefaultFioBSchedulePath = "resources/config/fio_b_schedule.yaml"
	DefaultRegionsPath      = "resources/config/regions.yaml"
	DefaultPromptsDir       = "resources/prompts"
	DefaultBatchConcurrency = 8
)

// Load reads the environment. Call godotenv.Load beforehand to pick up .env.
func Load() (Config, error) {
	cfg := Config{
		Port:             getenv("PORT", DefaultPort),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisTTL:         DefaultRedisTTL,
		FioBSchedulePath: ResolvePath(getenv("FIO_B_SCHEDULE_PATH", DefaultFioBSchedulePath)),
		RegionsPath:      ResolvePath(getenv("REGIONS_PATH", DefaultRegionsPath)),
		PromptsDir:       ResolvePath(getenv("PROMPTS_DIR", DefaultPromptsDir)),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      os.Getenv("GEMINI_MODEL"),
		BatchConcurrency: DefaultBatchConcurrency,
		LogLevelDebug:    os.Getenv("LOG_LEVEL") == "debug",
	}

	if v := os.Getenv("REDIS_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl < 0 {
			return Config{}, fmt.Errorf("invalid REDIS_TTL %q: expected a duration like 30m", v)
		}
		cfg.RedisTTL = ttl
	}

	if v := os.Getenv("BATCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid BATCH_CONCURRENCY %q: expected a positive integer", v)
		}
		cfg.BatchConcurrency = n
	}

	return cfg, nil
}

// ResolvePath returns path as-is when it exists relative to the working
// directory, otherwise relative to the executable's directory.
func ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	exePath, err := os.Executable()
	if err != nil {
		return path
	}
	candidate := filepath.Join(filepath.Dir(exePath), path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"solar_payback/pkg/api/payback"
	"solar_payback/pkg/api/responses"
	"solar_payback/pkg/core/config"
	"solar_payback/pkg/core/llm"
	"solar_payback/pkg/core/narrative"
	corePayback "solar_payback/pkg/core/payback"
	"solar_payback/pkg/core/prompt"
	"solar_payback/pkg/core/store"
	"solar_payback/pkg/core/tariff"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	logger, err := responses.InitLogger(cfg.LogLevelDebug)
	if err != nil {
		fmt.Printf("[FATAL] Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 1. Fio B schedule
	schedule, err := tariff.LoadSchedule(cfg.FioBSchedulePath)
	if err != nil {
		logger.Warn("failed to load Fio B schedule, falling back to Lei 14.300 table",
			zap.String("path", cfg.FioBSchedulePath), zap.Error(err))
		schedule = tariff.Lei14300Schedule()
	}
	resolver, err := tariff.NewResolver(schedule)
	if err != nil {
		logger.Fatal("invalid Fio B schedule", zap.Error(err))
	}
	logger.Info("Fio B schedule loaded",
		zap.String("version", schedule.Version), zap.Int("steps", len(schedule.Steps)))

	// 2. Regional tariff data
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	regions := buildRegions(ctx, cfg, logger)
	cancel()
	defer store.Close()

	// 3. Engine and optional narrative
	svc := corePayback.NewService(resolver, logger).WithConcurrency(cfg.BatchConcurrency)

	var provider llm.Provider
	if gemini := llm.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel); gemini != nil {
		provider = gemini
	} else {
		logger.Info("GEMINI_API_KEY not set, narrative endpoint disabled")
	}
	narrator := narrative.NewNarrator(provider, logger)

	prompts := prompt.NewRegistry()
	if err := prompt.LoadFromDirectory(prompts, cfg.PromptsDir); err != nil {
		logger.Warn("failed to load prompt library, using built-in narrative prompt", zap.Error(err))
	} else if pt, err := prompts.GetPrompt(narrative.PromptID); err == nil {
		if err := narrator.UsePrompt(pt); err != nil {
			logger.Warn("invalid narrative prompt, using built-in", zap.String("version", pt.Version), zap.Error(err))
		}
	}
	logger.Info("prompt library loaded", zap.Int("prompts", prompts.Count()))

	// 4. HTTP
	if !cfg.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), responses.RequestIDMiddleware())

	handler := payback.NewHandler(svc, regions, narrator, logger)
	handler.RegisterRoutes(router.Group("/api/v1"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "solar-payback", "fioBSchedule": schedule.Version})
	})

	logger.Info("API server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}

// buildRegions chains PostgreSQL (when configured) before the shipped file,
// behind a Redis or in-process cache.
func buildRegions(ctx context.Context, cfg config.Config, logger *zap.Logger) store.TariffRepository {
	var chain store.ChainTariffRepo

	if cfg.DatabaseURL != "" {
		if err := store.InitDB(ctx, cfg.DatabaseURL); err != nil {
			logger.Warn("database unavailable, using file regions only", zap.Error(err))
		} else {
			pg := store.NewPGTariffRepo(store.GetPool())
			if err := pg.EnsureSchema(ctx); err != nil {
				logger.Warn("failed to ensure tariff_regions schema", zap.Error(err))
			}
			chain = append(chain, pg)
		}
	}

	file, err := store.LoadFileTariffRepo(cfg.RegionsPath)
	if err != nil {
		logger.Warn("failed to load regions file", zap.String("path", cfg.RegionsPath), zap.Error(err))
	} else {
		logger.Info("regions loaded", zap.String("version", file.Version()), zap.Int("regions", file.Len()))
		chain = append(chain, file)
	}

	var cache store.CacheRepository = store.NewMemoryCache(cfg.RedisTTL)
	if cfg.RedisAddr != "" {
		redis := store.NewRedisCache(cfg.RedisAddr, cfg.RedisTTL)
		if err := redis.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, using in-memory cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			_ = redis.Close()
		} else {
			cache = redis
		}
	}

	return store.NewCachedTariffRepo(chain, cache, logger)
}

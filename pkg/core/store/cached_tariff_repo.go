package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"solar_payback/pkg/core/economics"
)

// RegionCacheKey is the cache key for a UF's config.
func RegionCacheKey(uf string) string {
	return "tariff:region:" + NormalizeUF(uf)
}

// CachedTariffRepo memoizes another repository's hits as JSON.
// Misses (ErrRegionNotFound) and failures are not cached.
type CachedTariffRepo struct {
	inner  TariffRepository
	cache  CacheRepository
	logger *zap.Logger
}

// NewCachedTariffRepo wraps inner with cache.
func NewCachedTariffRepo(inner TariffRepository, cache CacheRepository, logger *zap.Logger) *CachedTariffRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTariffRepo{inner: inner, cache: cache, logger: logger}
}

func (r *CachedTariffRepo) GetRegion(ctx context.Context, uf string) (economics.TariffRegimeConfig, error) {
	key := RegionCacheKey(uf)

	// 1. Cache
	if raw, ok := r.cache.Get(ctx, key); ok {
		var cfg economics.TariffRegimeConfig
		if err := json.Unmarshal([]byte(raw), &cfg); err == nil {
			return cfg, nil
		}
		r.logger.Warn("discarding corrupt cache entry", zap.String("key", key))
	}

	// 2. Source of truth
	cfg, err := r.inner.GetRegion(ctx, uf)
	if err != nil {
		return economics.TariffRegimeConfig{}, err
	}

	// 3. Fill
	data, err := json.Marshal(cfg)
	if err == nil {
		err = r.cache.Set(ctx, key, string(data))
	}
	if err != nil {
		r.logger.Warn("failed to cache region", zap.String("key", key), zap.Error(err))
	}
	return cfg, nil
}

// ChainTariffRepo tries each repository in order, moving on only when a
// repository reports ErrRegionNotFound.
type ChainTariffRepo []TariffRepository

func (c ChainTariffRepo) GetRegion(ctx context.Context, uf string) (economics.TariffRegimeConfig, error) {
	var lastErr error = ErrRegionNotFound
	for _, repo := range c {
		cfg, err := repo.GetRegion(ctx, uf)
		if err == nil {
			return cfg, nil
		}
		if !isNotFound(err) {
			return economics.TariffRegimeConfig{}, err
		}
		lastErr = err
	}
	return economics.TariffRegimeConfig{}, lastErr
}

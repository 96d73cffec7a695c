package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_payback/pkg/core/economics"
)

type countingRepo struct {
	mu    sync.Mutex
	calls int
	cfg   economics.TariffRegimeConfig
	err   error
}

func (r *countingRepo) GetRegion(_ context.Context, uf string) (economics.TariffRegimeConfig, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.err != nil {
		return economics.TariffRegimeConfig{}, r.err
	}
	cfg := r.cfg
	cfg.Regiao = NormalizeUF(uf)
	return cfg, nil
}

func TestFileTariffRepo_LoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	content := `versao: "2025-01"
regioes:
  mg:
    icms_pct: 18
    fixed_monthly_charges: 30
    scee_exemption_available: true
    scee_exemption_pct: 100
  SP:
    icms_pct: 18
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo, err := LoadFileTariffRepo(path)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Len())
	assert.Equal(t, "2025-01", repo.Version())

	cfg, err := repo.GetRegion(context.Background(), " Mg ")
	require.NoError(t, err)
	assert.Equal(t, 18.0, cfg.IcmsPct)
	assert.True(t, cfg.SceeExemptionAvailable)
	assert.Equal(t, "MG", cfg.Regiao)
	assert.Equal(t, economics.SourceFile, cfg.Fonte)

	_, err = repo.GetRegion(context.Background(), "XX")
	assert.ErrorIs(t, err, ErrRegionNotFound)
}

func TestFileTariffRepo_LoadHJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.hjson")
	content := `{
  versao: "2025-01"
  regioes: {
    # alíquota modal com isenção parcial
    BA: { icmsPct: 20.5, sceeExemptionAvailable: true, sceeExemptionPct: 50 }
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo, err := LoadFileTariffRepo(path)
	require.NoError(t, err)
	cfg, err := repo.GetRegion(context.Background(), "ba")
	require.NoError(t, err)
	assert.Equal(t, 20.5, cfg.IcmsPct)
	assert.Equal(t, 50.0, cfg.SceeExemptionPct)
}

func TestFileTariffRepo_RejectsInvalidRegion(t *testing.T) {
	_, err := NewFileTariffRepo("x", map[string]economics.TariffRegimeConfig{
		"RJ": {IcmsPct: 150},
	})
	assert.ErrorIs(t, err, economics.ErrInvalidArgument)
}

func TestFileTariffRepo_ShippedRegions(t *testing.T) {
	repo, err := LoadFileTariffRepo(filepath.Join("..", "..", "..", "resources", "config", "regions.yaml"))
	require.NoError(t, err)
	assert.Greater(t, repo.Len(), 0)

	cfg, err := repo.GetRegion(context.Background(), "MG")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestMemoryCache_TTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(time.Minute)
	cache.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v"))
	got, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCachedTariffRepo_MemoizesHits(t *testing.T) {
	inner := &countingRepo{cfg: economics.TariffRegimeConfig{IcmsPct: 18, Fonte: economics.SourceDatabase}}
	repo := NewCachedTariffRepo(inner, NewMemoryCache(0), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cfg, err := repo.GetRegion(ctx, "mg")
		require.NoError(t, err)
		assert.Equal(t, 18.0, cfg.IcmsPct)
		assert.Equal(t, "MG", cfg.Regiao)
		assert.Equal(t, economics.SourceDatabase, cfg.Fonte)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedTariffRepo_DoesNotCacheMisses(t *testing.T) {
	inner := &countingRepo{err: ErrRegionNotFound}
	cache := NewMemoryCache(0)
	repo := NewCachedTariffRepo(inner, cache, nil)
	ctx := context.Background()

	_, err := repo.GetRegion(ctx, "XX")
	assert.ErrorIs(t, err, ErrRegionNotFound)
	_, err = repo.GetRegion(ctx, "XX")
	assert.ErrorIs(t, err, ErrRegionNotFound)
	assert.Equal(t, 2, inner.calls)

	_, ok := cache.Get(ctx, RegionCacheKey("XX"))
	assert.False(t, ok)
}

func TestCachedTariffRepo_CorruptEntry(t *testing.T) {
	inner := &countingRepo{cfg: economics.TariffRegimeConfig{IcmsPct: 12}}
	cache := NewMemoryCache(0)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, RegionCacheKey("PR"), "{not json"))

	cfg, err := NewCachedTariffRepo(inner, cache, nil).GetRegion(ctx, "PR")
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.IcmsPct)
	assert.Equal(t, 1, inner.calls)
}

func TestChainTariffRepo(t *testing.T) {
	ctx := context.Background()
	missing := &countingRepo{err: ErrRegionNotFound}
	found := &countingRepo{cfg: economics.TariffRegimeConfig{IcmsPct: 17}}

	cfg, err := ChainTariffRepo{missing, found}.GetRegion(ctx, "SC")
	require.NoError(t, err)
	assert.Equal(t, 17.0, cfg.IcmsPct)

	boom := errors.New("connection refused")
	_, err = ChainTariffRepo{&countingRepo{err: boom}, found}.GetRegion(ctx, "SC")
	assert.ErrorIs(t, err, boom)

	_, err = ChainTariffRepo{missing}.GetRegion(ctx, "SC")
	assert.ErrorIs(t, err, ErrRegionNotFound)

	_, err = ChainTariffRepo{}.GetRegion(ctx, "SC")
	assert.ErrorIs(t, err, ErrRegionNotFound)
}

func TestPGTariffRepo_NilPool(t *testing.T) {
	repo := NewPGTariffRepo(nil)
	_, err := repo.GetRegion(context.Background(), "MG")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrRegionNotFound)
	assert.Error(t, repo.UpsertRegion(context.Background(), "MG", economics.TariffRegimeConfig{IcmsPct: 18}))
	assert.Error(t, repo.EnsureSchema(context.Background()))
}

func TestRegionCacheKey(t *testing.T) {
	assert.Equal(t, "tariff:region:MG", RegionCacheKey(" mg"))
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"solar_payback/pkg/core/economics"
)

// Schema:
// CREATE TABLE IF NOT EXISTS tariff_regions (
//   uf TEXT PRIMARY KEY,
//   config JSONB NOT NULL,
//   updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
// );
const tariffRegionsDDL = `
	CREATE TABLE IF NOT EXISTS tariff_regions (
		uf TEXT PRIMARY KEY,
		config JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// PGTariffRepo reads regional configs maintained by admins in PostgreSQL.
type PGTariffRepo struct {
	pool *pgxpool.Pool
}

// NewPGTariffRepo creates a repository over pool.
func NewPGTariffRepo(pool *pgxpool.Pool) *PGTariffRepo {
	return &PGTariffRepo{pool: pool}
}

// EnsureSchema creates the tariff_regions table if missing.
func (r *PGTariffRepo) EnsureSchema(ctx context.Context) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	if _, err := r.pool.Exec(ctx, tariffRegionsDDL); err != nil {
		return fmt.Errorf("failed to create tariff_regions: %w", err)
	}
	return nil
}

// GetRegion loads the config row for uf.
func (r *PGTariffRepo) GetRegion(ctx context.Context, uf string) (economics.TariffRegimeConfig, error) {
	if r.pool == nil {
		return economics.TariffRegimeConfig{}, fmt.Errorf("database pool not configured")
	}
	uf = NormalizeUF(uf)

	query := `
		SELECT config
		FROM tariff_regions
		WHERE uf = $1
	`
	var raw []byte
	err := r.pool.QueryRow(ctx, query, uf).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return economics.TariffRegimeConfig{}, fmt.Errorf("%w: %s", ErrRegionNotFound, uf)
	}
	if err != nil {
		return economics.TariffRegimeConfig{}, fmt.Errorf("failed to query region %s: %w", uf, err)
	}

	var cfg economics.TariffRegimeConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return economics.TariffRegimeConfig{}, fmt.Errorf("failed to unmarshal region %s: %w", uf, err)
	}
	cfg.Regiao = uf
	cfg.Fonte = economics.SourceDatabase
	return cfg, nil
}

// UpsertRegion validates and stores cfg for uf.
func (r *PGTariffRepo) UpsertRegion(ctx context.Context, uf string, cfg economics.TariffRegimeConfig) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config for region %s: %w", uf, err)
	}
	uf = NormalizeUF(uf)
	cfg.Regiao = uf
	cfg.Fonte = ""

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	query := `
		INSERT INTO tariff_regions (uf, config, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (uf)
		DO UPDATE SET config = EXCLUDED.config, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, uf, data, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert region %s: %w", uf, err)
	}
	return nil
}

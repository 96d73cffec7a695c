package store

import (
	"context"
	"fmt"

	"solar_payback/pkg/core/economics"
	"solar_payback/pkg/core/utils"
)

// regionsDocument is the on-disk layout of the regions file.
type regionsDocument struct {
	Version string                                  `json:"versao" yaml:"versao"`
	Regions map[string]economics.TariffRegimeConfig `json:"regioes" yaml:"regioes"`
}

// FileTariffRepo serves regional configs loaded once from a yaml, hjson or
// json file. It is read-only after construction.
type FileTariffRepo struct {
	version string
	regions map[string]economics.TariffRegimeConfig
}

// LoadFileTariffRepo reads and validates every region in path.
func LoadFileTariffRepo(path string) (*FileTariffRepo, error) {
	var doc regionsDocument
	if err := utils.DecodeConfigFile(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to load regions: %w", err)
	}
	return NewFileTariffRepo(doc.Version, doc.Regions)
}

// NewFileTariffRepo builds a repository from in-memory regions.
func NewFileTariffRepo(version string, regions map[string]economics.TariffRegimeConfig) (*FileTariffRepo, error) {
	out := make(map[string]economics.TariffRegimeConfig, len(regions))
	for uf, cfg := range regions {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config for region %s: %w", uf, err)
		}
		key := NormalizeUF(uf)
		cfg.Regiao = key
		cfg.Fonte = economics.SourceFile
		out[key] = cfg
	}
	return &FileTariffRepo{version: version, regions: out}, nil
}

// GetRegion returns the config for uf.
func (r *FileTariffRepo) GetRegion(_ context.Context, uf string) (economics.TariffRegimeConfig, error) {
	uf = NormalizeUF(uf)
	cfg, ok := r.regions[uf]
	if !ok {
		return economics.TariffRegimeConfig{}, fmt.Errorf("%w: %s", ErrRegionNotFound, uf)
	}
	return cfg, nil
}

// Len returns the number of regions loaded.
func (r *FileTariffRepo) Len() int {
	return len(r.regions)
}

// Version returns the file's version label.
func (r *FileTariffRepo) Version() string {
	return r.version
}

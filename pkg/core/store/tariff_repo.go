package store

import (
	"context"
	"errors"
	"strings"

	"solar_payback/pkg/core/economics"
)

// ErrRegionNotFound means no regional tariff data exists for the UF.
var ErrRegionNotFound = errors.New("region not found")

// TariffRepository is the configuration collaborator that supplies
// TariffRegimeConfig per state (UF).
type TariffRepository interface {
	GetRegion(ctx context.Context, uf string) (economics.TariffRegimeConfig, error)
}

// NormalizeUF upper-cases and trims a state code.
func NormalizeUF(uf string) string {
	return strings.ToUpper(strings.TrimSpace(uf))
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrRegionNotFound)
}

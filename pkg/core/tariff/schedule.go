// Package tariff resolves the regulatory Fio B phase-in applicable to
// net-metered generation. The legal table is data, not code: it is loaded
// from a versioned file at start-up and passed to NewResolver.
package tariff

import (
	"errors"
	"fmt"

	"solar_payback/pkg/core/economics"
)

// ErrInvalidSchedule is returned for tables that break the phase-in invariants.
var ErrInvalidSchedule = fmt.Errorf("invalid Fio B schedule: %w", economics.ErrInvalidArgument)

// FioBStep is the percentage of the Fio B component charged on compensated
// energy from calendar year Year onward.
type FioBStep struct {
	Year int     `json:"ano" yaml:"ano"`
	Pct  float64 `json:"percentual" yaml:"percentual"`
}

// FioBSchedule is the versionable phase-in table.
type FioBSchedule struct {
	Version string     `json:"versao" yaml:"versao"`
	Law     string     `json:"lei,omitempty" yaml:"lei"`
	Steps   []FioBStep `json:"passos" yaml:"passos"`
	// Ceiling is the plateau; zero means "the last step".
	Ceiling float64 `json:"teto,omitempty" yaml:"teto"`
}

// Lei14300Schedule is the transition table of Lei 14.300/2022 art. 27, used
// only when no schedule file could be loaded.
func Lei14300Schedule() FioBSchedule {
	return FioBSchedule{
		Version: "lei-14300-2022",
		Law:     "Lei 14.300/2022, art. 27",
		Steps: []FioBStep{
			{Year: 2023, Pct: 15},
			{Year: 2024, Pct: 30},
			{Year: 2025, Pct: 45},
			{Year: 2026, Pct: 60},
			{Year: 2027, Pct: 75},
			{Year: 2028, Pct: 90},
		},
		Ceiling: 90,
	}
}

// Validate enforces: at least one step, strictly increasing years,
// non-decreasing percentages within [0,100], ceiling not below the last step.
func (s FioBSchedule) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidSchedule)
	}

	var errs []error
	for i, step := range s.Steps {
		if step.Pct < 0 || step.Pct > 100 {
			errs = append(errs, fmt.Errorf("%w: step %d (%d) percentage %.2f outside [0,100]", ErrInvalidSchedule, i, step.Year, step.Pct))
		}
		if i == 0 {
			continue
		}
		prev := s.Steps[i-1]
		if step.Year <= prev.Year {
			errs = append(errs, fmt.Errorf("%w: year %d does not follow %d", ErrInvalidSchedule, step.Year, prev.Year))
		}
		if step.Pct < prev.Pct {
			errs = append(errs, fmt.Errorf("%w: percentage decreases from %.2f (%d) to %.2f (%d)", ErrInvalidSchedule, prev.Pct, prev.Year, step.Pct, step.Year))
		}
	}

	last := s.Steps[len(s.Steps)-1].Pct
	if s.Ceiling != 0 && (s.Ceiling < last || s.Ceiling > 100) {
		errs = append(errs, fmt.Errorf("%w: ceiling %.2f must be within [%.2f,100]", ErrInvalidSchedule, s.Ceiling, last))
	}

	return errors.Join(errs...)
}

// Plateau returns the legislated ceiling.
func (s FioBSchedule) Plateau() float64 {
	if s.Ceiling > 0 {
		return s.Ceiling
	}
	if len(s.Steps) == 0 {
		return 0
	}
	return s.Steps[len(s.Steps)-1].Pct
}

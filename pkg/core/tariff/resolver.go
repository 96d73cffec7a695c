package tariff

import (
	"fmt"

	"solar_payback/pkg/core/economics"
)

// Resolver maps calendar years to the Fio B percentage of a validated schedule.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	schedule FioBSchedule
}

// NewResolver validates schedule and wraps it.
func NewResolver(schedule FioBSchedule) (*Resolver, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{schedule: schedule}, nil
}

// Schedule returns the table this resolver was built from.
func (r *Resolver) Schedule() FioBSchedule {
	return r.schedule
}

// Plateau returns the ceiling percentage.
func (r *Resolver) Plateau() float64 {
	return r.schedule.Plateau()
}

// PercentageForYear is the step function of calendar year:
// 0 before the transition, the last step in force inside it, the plateau after it.
func (r *Resolver) PercentageForYear(calendarYear int) float64 {
	steps := r.schedule.Steps
	if calendarYear < steps[0].Year {
		return 0
	}
	last := steps[len(steps)-1]
	if calendarYear > last.Year {
		return r.Plateau()
	}

	pct := steps[0].Pct
	for _, step := range steps {
		if step.Year > calendarYear {
			break
		}
		pct = step.Pct
	}
	return pct
}

// ResolveFioBPercentage returns the percentage for projection year offsetYear
// (1-based) of a projection whose first year is baseYear.
func (r *Resolver) ResolveFioBPercentage(baseYear, offsetYear int) (float64, error) {
	if offsetYear <= 0 {
		return 0, economics.Invalid("offsetYear", "must be >= 1, got %d", offsetYear)
	}
	return r.PercentageForYear(baseYear + offsetYear - 1), nil
}

// AnchorYear returns the calendar year whose step is the last one not above
// pct. A pct below the first step anchors on the year before the transition.
// Combined with pct as a floor, projection year 1 then resolves to pct itself.
func (r *Resolver) AnchorYear(pct float64) int {
	steps := r.schedule.Steps
	year := steps[0].Year - 1
	for _, step := range steps {
		if step.Pct > pct {
			break
		}
		year = step.Year
	}
	return year
}

// Series resolves years consecutive projection years starting at baseYear.
func (r *Resolver) Series(baseYear, years int) ([]FioBStep, error) {
	if years <= 0 {
		return nil, fmt.Errorf("%w: years must be >= 1, got %d", economics.ErrInvalidArgument, years)
	}
	out := make([]FioBStep, 0, years)
	for offset := 1; offset <= years; offset++ {
		pct, err := r.ResolveFioBPercentage(baseYear, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, FioBStep{Year: baseYear + offset - 1, Pct: pct})
	}
	return out, nil
}

// ResolveExemption echoes the jurisdiction's SCEE ICMS exemption.
func (r *Resolver) ResolveExemption(cfg economics.TariffRegimeConfig) (bool, float64) {
	return economics.ResolveExemption(cfg)
}

// Package projection drives the per-year calculator across the horizon for
// both assumption sets and locates the break-even point.
package projection

import (
	"fmt"
	"math"

	"solar_payback/pkg/core/economics"
	"solar_payback/pkg/core/tariff"
	"solar_payback/pkg/core/valuation"
)

// Engine articulates year-by-year savings for every scenario.
// It keeps no per-call state and can be shared across goroutines.
type Engine struct {
	calc     *economics.Calculator
	resolver *tariff.Resolver
}

// NewEngine creates an engine over a validated schedule resolver.
func NewEngine(resolver *tariff.Resolver) *Engine {
	return &Engine{
		calc:     economics.NewCalculator(),
		resolver: resolver,
	}
}

// Resolver exposes the schedule the engine projects against.
func (e *Engine) Resolver() *tariff.Resolver {
	return e.resolver
}

// BaseYear returns the calendar year of projection year 1: the input's
// startYear, or the last schedule year whose step does not exceed currentFioBPct.
func (e *Engine) BaseYear(in economics.CalculationInput, cfg economics.TariffRegimeConfig) int {
	if in.StartYear > 0 {
		return in.StartYear
	}
	return e.resolver.AnchorYear(cfg.CurrentFioBPct)
}

// FioBPercentages resolves the Fio B percentage of every projection year.
// The configured current percentage is a floor, so the series never ramps down.
func (e *Engine) FioBPercentages(baseYear, horizon int, currentPct float64) ([]float64, error) {
	pcts := make([]float64, horizon)
	for y := 1; y <= horizon; y++ {
		pct, err := e.resolver.ResolveFioBPercentage(baseYear, y)
		if err != nil {
			return nil, err
		}
		pcts[y-1] = math.Max(currentPct, pct)
	}
	return pcts, nil
}

// Project runs both scenarios over the horizon. Invalid input fails before
// any year is computed.
func (e *Engine) Project(in economics.CalculationInput, cfg economics.TariffRegimeConfig) (Projection, error) {
	if err := in.Validate(); err != nil {
		return Projection{}, fmt.Errorf("invalid calculation input: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Projection{}, fmt.Errorf("invalid tariff regime config: %w", err)
	}

	horizon := in.HorizonYears
	if horizon == 0 {
		horizon = economics.DefaultHorizonYears
	}

	// 1. Regulatory ramp, shared by both scenarios
	baseYear := e.BaseYear(in, cfg)
	pcts, err := e.FioBPercentages(baseYear, horizon, cfg.CurrentFioBPct)
	if err != nil {
		return Projection{}, err
	}

	// 2. One pass per assumption set
	scenarios := economics.Scenarios()
	conservative := e.projectScenario(in, cfg, scenarios[0], pcts)
	optimistic := e.projectScenario(in, cfg, scenarios[1], pcts)

	// 3. Merged chart series
	impact := make([]FioBImpact, horizon)
	for i := 0; i < horizon; i++ {
		c := conservative.Years[i]
		impact[i] = FioBImpact{
			Year:                 c.Year,
			CalendarYear:         baseYear + i,
			Pct:                  c.FioBPct,
			FioBCost:             c.FioBCost,
			NetSavings:           c.NetSavings,
			NetSavingsOptimistic: optimistic.Years[i].NetSavings,
		}
	}

	return Projection{
		Horizon:      horizon,
		BaseYear:     baseYear,
		Conservative: conservative,
		Optimistic:   optimistic,
		FioBImpact:   impact,
	}, nil
}

func (e *Engine) projectScenario(
	in economics.CalculationInput,
	cfg economics.TariffRegimeConfig,
	scenario economics.Scenario,
	pcts []float64,
) ScenarioProjection {
	years := make([]economics.ScenarioYearResult, len(pcts))
	cumulative := make([]float64, len(pcts))

	total := 0.0
	floored, nonFinite := 0, 0
	for i, pct := range pcts {
		res := e.calc.ComputeYear(in, cfg, i+1, scenario, pct)
		years[i] = res
		total += res.NetSavings
		cumulative[i] = total
		if res.Floored {
			floored++
		}
		if res.NonFinite {
			nonFinite++
		}
	}

	return ScenarioProjection{
		Scenario:        scenario,
		Years:           years,
		Cumulative:      cumulative,
		TotalNetSavings: total,
		PaybackYears:    LocatePayback(years, in.InvestmentTotal),
		ROI:             valuation.CalculateROI(total, in.InvestmentTotal),
		FlooredYears:    floored,
		NonFiniteYears:  nonFinite,
	}
}

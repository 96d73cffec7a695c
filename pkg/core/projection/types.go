package projection

import (
	"solar_payback/pkg/core/economics"
)

// PaybackNotReached is the paybackAnos sentinel: cumulative net savings never
// reached the investment within the horizon. It is not a zero-year payback.
const PaybackNotReached = 0.0

// ScenarioProjection is one scenario's series over the whole horizon.
type ScenarioProjection struct {
	Scenario   economics.Scenario
	Years      []economics.ScenarioYearResult
	Cumulative []float64 // cumulative net savings at the end of each year

	TotalNetSavings float64
	PaybackYears    float64 // PaybackNotReached when never crossed
	ROI             float64 // percent
	FlooredYears    int
	NonFiniteYears  int
}

// Reached reports whether the investment was recovered within the horizon.
func (s ScenarioProjection) Reached() bool {
	return s.PaybackYears != PaybackNotReached
}

// NetSavingsSeries returns the annual net savings as a cash-flow series.
func (s ScenarioProjection) NetSavingsSeries() []float64 {
	out := make([]float64, len(s.Years))
	for i, y := range s.Years {
		out[i] = y.NetSavings
	}
	return out
}

// FioBImpact is one year of the merged chart series.
type FioBImpact struct {
	Year                 int     `json:"ano"`
	CalendarYear         int     `json:"anoCalendario"`
	Pct                  float64 `json:"percentual"`
	FioBCost             float64 `json:"custoFioB"`
	NetSavings           float64 `json:"economiaLiquida"`
	NetSavingsOptimistic float64 `json:"economiaLiquidaOtimista"`
}

// Projection is the output of Engine.Project.
type Projection struct {
	Horizon  int
	BaseYear int // calendar year of projection year 1

	Conservative ScenarioProjection
	Optimistic   ScenarioProjection
	FioBImpact   []FioBImpact
}

package projection

import (
	"math"

	"solar_payback/pkg/core/economics"
)

// LocatePayback returns the fractional year at which cumulative net savings
// reach investment, interpolating linearly inside the crossing year.
// Returns PaybackNotReached if the horizon ends first.
func LocatePayback(years []economics.ScenarioYearResult, investment float64) float64 {
	prev := 0.0
	for i, y := range years {
		cum := prev + y.NetSavings
		if cum >= investment && y.NetSavings > 0 {
			return float64(i) + (investment-prev)/y.NetSavings
		}
		prev = cum
	}
	return PaybackNotReached
}

// CumulativeAt returns cumulative net savings at fractional year t, assuming
// savings accrue evenly within each year.
func CumulativeAt(years []economics.ScenarioYearResult, t float64) float64 {
	if t <= 0 {
		return 0
	}
	whole := int(math.Floor(t))
	total := 0.0
	for i := 0; i < whole && i < len(years); i++ {
		total += years[i].NetSavings
	}
	if whole < len(years) {
		total += (t - float64(whole)) * years[whole].NetSavings
	}
	return total
}

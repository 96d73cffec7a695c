package economics

import (
	"errors"
	"math"
)

// Validate checks the structural invariants of a CalculationInput.
// All violations are reported together.
func (in CalculationInput) Validate() error {
	var errs []error

	if !positive(in.MonthlyConsumptionKwh) {
		errs = append(errs, Invalid("monthlyConsumptionKwh", "must be > 0, got %v", in.MonthlyConsumptionKwh))
	}
	if !positive(in.TariffPerKwh) {
		errs = append(errs, Invalid("tariffPerKwh", "must be > 0, got %v", in.TariffPerKwh))
	}
	if !positive(in.InstalledCapacityKwp) {
		errs = append(errs, Invalid("installedCapacityKwp", "must be > 0, got %v", in.InstalledCapacityKwp))
	}
	if !positive(in.InvestmentTotal) {
		errs = append(errs, Invalid("investmentTotal", "must be > 0, got %v", in.InvestmentTotal))
	}
	if in.HorizonYears < 0 || in.HorizonYears > MaxHorizonYears {
		errs = append(errs, Invalid("horizonYears", "must be within [0,%d], got %d", MaxHorizonYears, in.HorizonYears))
	}
	if !finite(in.AnnualTariffEscalationPct) || in.AnnualTariffEscalationPct <= -100 || in.AnnualTariffEscalationPct > MaxAnnualEscalationPct {
		errs = append(errs, Invalid("annualTariffEscalationPct", "must be within (-100,%v], got %v", MaxAnnualEscalationPct, in.AnnualTariffEscalationPct))
	}
	if !finite(in.AnnualPanelDegradationPct) || in.AnnualPanelDegradationPct < 0 || in.AnnualPanelDegradationPct >= 100 {
		errs = append(errs, Invalid("annualPanelDegradationPct", "must be within [0,100), got %v", in.AnnualPanelDegradationPct))
	}
	if !finite(in.BaseGenerationFactor) || in.BaseGenerationFactor < 0 {
		errs = append(errs, Invalid("baseGenerationFactor", "must be >= 0, got %v", in.BaseGenerationFactor))
	}
	if in.StartYear < 0 {
		errs = append(errs, Invalid("startYear", "must be >= 0, got %d", in.StartYear))
	}
	if in.ConnectionType != "" {
		if _, ok := in.ConnectionType.AvailabilityKwh(); !ok {
			errs = append(errs, Invalid("connectionType", "unknown connection type %q", in.ConnectionType))
		}
	}
	if !finite(in.DiscountRatePct) || in.DiscountRatePct <= -100 {
		errs = append(errs, Invalid("discountRatePct", "must be > -100, got %v", in.DiscountRatePct))
	}

	return errors.Join(errs...)
}

// Validate checks the ranges of a TariffRegimeConfig.
func (c TariffRegimeConfig) Validate() error {
	var errs []error

	if !percent(c.IcmsPct) {
		errs = append(errs, Invalid("icmsPct", "must be within [0,100], got %v", c.IcmsPct))
	}
	if !percent(c.CurrentFioBPct) {
		errs = append(errs, Invalid("currentFioBPct", "must be within [0,100], got %v", c.CurrentFioBPct))
	}
	if !finite(c.FixedMonthlyCharges) || c.FixedMonthlyCharges < 0 {
		errs = append(errs, Invalid("fixedMonthlyCharges", "must be >= 0, got %v", c.FixedMonthlyCharges))
	}
	if !percent(c.SceeExemptionPct) {
		errs = append(errs, Invalid("sceeExemptionPct", "must be within [0,100], got %v", c.SceeExemptionPct))
	}
	if !percent(c.FioBShareOfTariffPct) {
		errs = append(errs, Invalid("fioBShareOfTariffPct", "must be within [0,100], got %v", c.FioBShareOfTariffPct))
	}

	return errors.Join(errs...)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func positive(v float64) bool { return finite(v) && v > 0 }

func percent(v float64) bool { return finite(v) && v >= 0 && v <= 100 }

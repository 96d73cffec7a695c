package economics

import (
	"math"
)

// Calculator computes one scenario-year of savings. It is stateless; the
// zero value is ready to use.
type Calculator struct{}

// NewCalculator creates a calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// ComputeYear evaluates year (1-based) of scenario, with fioBPct already
// resolved from the tariff schedule for that year.
//
// Inputs are expected to be validated; a zero capacity is tolerated and
// simply yields zero compensated energy.
func (c *Calculator) ComputeYear(
	in CalculationInput,
	cfg TariffRegimeConfig,
	year int,
	scenario Scenario,
	fioBPct float64,
) ScenarioYearResult {
	elapsed := float64(year - 1)
	escalation := math.Pow(1+in.AnnualTariffEscalationPct/100, elapsed)

	// 1. Degraded generation, capped at consumption (no export credit banking)
	monthlyGeneration := in.InstalledCapacityKwp * GenerationFactor(in)
	monthlyOffset := math.Min(in.MonthlyConsumptionKwh, monthlyGeneration)
	degradation := math.Pow(1-in.AnnualPanelDegradationPct/100, elapsed)
	kwhOffset := monthlyOffset * degradation * 12

	// 2. Compensable tariff after ICMS treatment
	netTariff := NetCompensableTariff(in.TariffPerKwh, cfg, scenario)

	// 3. Gross savings at this year's tariff level
	gross := kwhOffset * netTariff * escalation

	// 4. Fio B claw-back: statute, applies to both scenarios
	fioBCost := kwhOffset * in.TariffPerKwh * escalation * FioBShare(cfg) / 100 * fioBPct / 100

	// 5. Minimum bill that solar can never offset
	unavoidable := cfg.FixedMonthlyCharges * 12 * escalation

	// 6. Net, floored at zero and capped at the bill that would have been paid
	billWithoutSolar := in.MonthlyConsumptionKwh * 12 * in.TariffPerKwh * escalation
	raw := gross - fioBCost - unavoidable
	net := math.Min(math.Max(0, raw), billWithoutSolar)

	res := ScenarioYearResult{
		Year:                 year,
		KwhOffset:            kwhOffset,
		NetCompensableTariff: netTariff,
		GrossSavings:         gross,
		FioBPct:              fioBPct,
		FioBCost:             fioBCost,
		UnavoidableBill:      unavoidable,
		BillWithoutSolar:     billWithoutSolar,
		NetSavings:           net,
		Floored:              raw < 0,
	}

	// 7. Overflowed figures are zeroed and flagged, never propagated
	for _, v := range []*float64{&res.KwhOffset, &res.NetCompensableTariff, &res.GrossSavings, &res.FioBCost,
		&res.UnavoidableBill, &res.BillWithoutSolar, &res.NetSavings} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
			res.NonFinite = true
		}
	}
	if res.NonFinite {
		res.Floored = false
	}
	return res
}

// NetCompensableTariff returns the R$/kWh credited for compensated energy.
//
// Conservative: ICMS is charged in full on the credit.
// Optimistic:   the SCEE exemption (if the state grants one) discounts the ICMS component.
func NetCompensableTariff(tariff float64, cfg TariffRegimeConfig, scenario Scenario) float64 {
	icms := cfg.IcmsPct / 100
	if scenario.HonorExemption {
		exemption, pct := ResolveExemption(cfg)
		if exemption {
			icms *= 1 - pct/100
		}
	}
	return tariff * (1 - icms)
}

// ResolveExemption echoes the jurisdiction's SCEE exemption policy.
// Eligibility is state policy data, not a computed rule.
func ResolveExemption(cfg TariffRegimeConfig) (bool, float64) {
	if !cfg.SceeExemptionAvailable {
		return false, 0
	}
	return true, cfg.SceeExemptionPct
}

// GenerationFactor returns kWh/kWp/month, falling back to the documented default.
func GenerationFactor(in CalculationInput) float64 {
	if in.BaseGenerationFactor > 0 {
		return in.BaseGenerationFactor
	}
	return DefaultBaseGenerationFactor
}

// FioBShare returns the Fio B share of the tariff in percent, falling back to the documented default.
func FioBShare(cfg TariffRegimeConfig) float64 {
	if cfg.FioBShareOfTariffPct > 0 {
		return cfg.FioBShareOfTariffPct
	}
	return DefaultFioBShareOfTariffPct
}

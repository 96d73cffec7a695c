// Package economics implements the per-year savings arithmetic of a
// net-metered photovoltaic installation under the Brazilian SCEE rules.
// Every function here is pure: inputs are values, results are values.
package economics

// =============================================================================
// INPUTS
// =============================================================================

// ConnectionType identifies the grid connection, which sets the minimum
// (availability) charge a consumer pays even when solar covers all usage.
type ConnectionType string

const (
	ConnectionMonofasico ConnectionType = "monofasico"
	ConnectionBifasico   ConnectionType = "bifasico"
	ConnectionTrifasico  ConnectionType = "trifasico"
)

// AvailabilityKwh returns the kWh billed monthly as availability charge.
func (c ConnectionType) AvailabilityKwh() (float64, bool) {
	switch c {
	case ConnectionMonofasico:
		return 30, true
	case ConnectionBifasico:
		return 50, true
	case ConnectionTrifasico:
		return 100, true
	}
	return 0, false
}

// Documented fallbacks used when callers leave a field empty.
const (
	DefaultHorizonYears         = 25
	MaxHorizonYears             = 50
	MaxAnnualEscalationPct      = 100.0
	DefaultBaseGenerationFactor = 120.0 // kWh per kWp per month
	DefaultFioBShareOfTariffPct = 28.0  // TUSD Fio B share of the full tariff
	DefaultConnectionType       = ConnectionBifasico
	DefaultRegionalICMSPct      = 25.0
)

// CalculationInput is constructed once per run and never mutated by the engine.
type CalculationInput struct {
	MonthlyConsumptionKwh     float64 `json:"monthlyConsumptionKwh"`
	TariffPerKwh              float64 `json:"tariffPerKwh"` // R$/kWh, taxes included
	InstalledCapacityKwp      float64 `json:"installedCapacityKwp"`
	InvestmentTotal           float64 `json:"investmentTotal"`
	AnnualTariffEscalationPct float64 `json:"annualTariffEscalationPct"` // e.g. 5.0
	AnnualPanelDegradationPct float64 `json:"annualPanelDegradationPct"` // e.g. 0.8
	HorizonYears              int     `json:"horizonYears"`

	// Produced by sizing collaborators (irradiation lookup). kWh per kWp per month.
	BaseGenerationFactor float64 `json:"baseGenerationFactor,omitempty"`

	// Calendar year of projection year 1. Zero anchors on TariffRegimeConfig.CurrentFioBPct.
	StartYear int `json:"startYear,omitempty"`

	ConnectionType  ConnectionType `json:"connectionType,omitempty"`
	DiscountRatePct float64        `json:"discountRatePct,omitempty"`
}

// ConfigSource records where a TariffRegimeConfig came from.
type ConfigSource string

const (
	SourceRequest  ConfigSource = "request"
	SourceDatabase ConfigSource = "database"
	SourceFile     ConfigSource = "file"
	SourceDefault  ConfigSource = "default"
)

// TariffRegimeConfig is resolved once per run and reused across every year.
type TariffRegimeConfig struct {
	IcmsPct                float64 `json:"icmsPct" yaml:"icms_pct"`
	CurrentFioBPct         float64 `json:"currentFioBPct" yaml:"current_fio_b_pct"`
	FixedMonthlyCharges    float64 `json:"fixedMonthlyCharges" yaml:"fixed_monthly_charges"`
	SceeExemptionAvailable bool    `json:"sceeExemptionAvailable" yaml:"scee_exemption_available"`
	SceeExemptionPct       float64 `json:"sceeExemptionPct" yaml:"scee_exemption_pct"`
	FioBShareOfTariffPct   float64 `json:"fioBShareOfTariffPct,omitempty" yaml:"fio_b_share_of_tariff_pct"`

	Regiao string       `json:"regiao,omitempty" yaml:"regiao"`
	Fonte  ConfigSource `json:"fonte,omitempty" yaml:"-"`
}

// DefaultRegimeConfig is the conservative configuration used when no regional
// data exists: full ICMS, no SCEE exemption. CurrentFioBPct is left for the
// caller to fill from the loaded schedule.
func DefaultRegimeConfig() TariffRegimeConfig {
	return TariffRegimeConfig{
		IcmsPct:                DefaultRegionalICMSPct,
		SceeExemptionAvailable: false,
		FioBShareOfTariffPct:   DefaultFioBShareOfTariffPct,
		Fonte:                  SourceDefault,
	}
}

// =============================================================================
// SCENARIOS (ASSUMPTION SETS)
// =============================================================================

// ScenarioKind tags the two assumption sets the engine always evaluates.
type ScenarioKind string

const (
	Conservative ScenarioKind = "conservador"
	Optimistic   ScenarioKind = "otimista"
)

// Scenario is the small record of assumptions that distinguishes the two
// projections. Both run through the same code path.
type Scenario struct {
	Kind ScenarioKind
	// HonorExemption applies the jurisdiction's SCEE ICMS exemption, if any.
	HonorExemption bool
}

// Scenarios returns the assumption sets in output order.
func Scenarios() []Scenario {
	return []Scenario{
		{Kind: Conservative, HonorExemption: false},
		{Kind: Optimistic, HonorExemption: true},
	}
}

// =============================================================================
// OUTPUTS
// =============================================================================

// ScenarioYearResult holds one scenario's economics for one projection year.
// All money figures are annual.
type ScenarioYearResult struct {
	Year                 int     `json:"ano"`
	KwhOffset            float64 `json:"kwhCompensado"`
	NetCompensableTariff float64 `json:"tarifaCompensavelLiquida"`
	GrossSavings         float64 `json:"economiaBruta"`
	FioBPct              float64 `json:"percentualFioB"`
	FioBCost             float64 `json:"custoFioB"`
	UnavoidableBill      float64 `json:"contaInevitavel"`
	BillWithoutSolar     float64 `json:"contaSemSolar"`
	NetSavings           float64 `json:"economiaLiquida"`

	// Floored is set when gross savings did not cover Fio B and the minimum bill.
	Floored bool `json:"economiaZerada,omitempty"`
	// NonFinite is set when a figure overflowed; the offending figures are reported as 0.
	NonFinite bool `json:"calculoNaoFinito,omitempty"`
}

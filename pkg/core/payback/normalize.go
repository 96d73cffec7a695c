package payback

import (
	"solar_payback/pkg/core/alerts"
	"solar_payback/pkg/core/economics"
)

// normalize fills documented defaults for missing data and reports each
// substitution as a DataGap alert. Inputs must already be validated.
func normalize(in economics.CalculationInput, cfg economics.TariffRegimeConfig) (economics.CalculationInput, economics.TariffRegimeConfig, []alerts.Alert) {
	var gaps []alerts.Alert

	if in.HorizonYears == 0 {
		in.HorizonYears = economics.DefaultHorizonYears
	}

	if in.BaseGenerationFactor == 0 {
		in.BaseGenerationFactor = economics.DefaultBaseGenerationFactor
		gaps = append(gaps, alerts.DataGap("baseGenerationFactor",
			"fator de geração não informado; usando %.0f kWh/kWp/mês.", economics.DefaultBaseGenerationFactor))
	}

	if cfg.FioBShareOfTariffPct == 0 {
		cfg.FioBShareOfTariffPct = economics.DefaultFioBShareOfTariffPct
		gaps = append(gaps, alerts.DataGap("fioBShareOfTariffPct",
			"participação do Fio B na tarifa não informada; usando %.0f%%.", economics.DefaultFioBShareOfTariffPct))
	}

	// Availability charge: explicit value, else derived from the connection type
	if cfg.FixedMonthlyCharges == 0 {
		conn := in.ConnectionType
		if conn == "" {
			conn = economics.DefaultConnectionType
			in.ConnectionType = conn
			gaps = append(gaps, alerts.DataGap("fixedMonthlyCharges",
				"custo de disponibilidade e tipo de ligação não informados; assumindo ligação %s.", conn))
		}
		kwh, _ := conn.AvailabilityKwh()
		cfg.FixedMonthlyCharges = kwh * in.TariffPerKwh
	}

	return in, cfg, gaps
}

// Package payback is the single entry point collaborators call: it normalizes
// inputs, runs the projection for both scenarios, solves the IRR and
// annotates the result with alerts.
package payback

import (
	"solar_payback/pkg/core/alerts"
	"solar_payback/pkg/core/economics"
	"solar_payback/pkg/core/projection"
)

// ScenarioSummary aggregates one scenario over the horizon.
//
// The headline money fields (economiaBruta, custoFioB, contaInevitavel,
// economiaLiquida) and kwhCompensado are first-year MONTHLY figures.
// paybackAnos == 0 means not reached within the horizon.
type ScenarioSummary struct {
	EconomiaBruta            float64 `json:"economiaBruta"`
	CustoFioB                float64 `json:"custoFioB"`
	ContaInevitavel          float64 `json:"contaInevitavel"`
	TarifaCompensavelLiquida float64 `json:"tarifaCompensavelLiquida"`
	KwhCompensado            float64 `json:"kwhCompensado"`
	EconomiaLiquida          float64 `json:"economiaLiquida"`

	EconomiaAnual   float64 `json:"economiaAnual"`
	EconomiaTotal   float64 `json:"economiaTotal"`
	PaybackAnos     float64 `json:"paybackAnos"`
	ROI             float64 `json:"roi"`
	TIR             float64 `json:"tir"`
	TIRConvergiu    bool    `json:"tirConvergiu"`
	VPL             float64 `json:"vpl"`
	AnosSemEconomia int     `json:"anosSemEconomia"`

	AnnualSeries []economics.ScenarioYearResult `json:"annualSeries"`
}

// PaybackReached reports whether paybackAnos is an actual break-even time.
func (s ScenarioSummary) PaybackReached() bool {
	return s.PaybackAnos != projection.PaybackNotReached
}

// PaybackResult is the sole artifact returned to collaborators.
type PaybackResult struct {
	Conservador      ScenarioSummary              `json:"conservador"`
	Otimista         ScenarioSummary              `json:"otimista"`
	ConfigUsada      economics.TariffRegimeConfig `json:"configUsada"`
	InputUsado       economics.CalculationInput   `json:"inputUsado"`
	Alertas          []string                     `json:"alertas"`
	Diagnosticos     []alerts.Alert               `json:"diagnosticos"`
	FioBImpactoAnual []projection.FioBImpact      `json:"fioBImpactoAnual"`
	AnoBase          int                          `json:"anoBase"`
	HorizonteAnos    int                          `json:"horizonteAnos"`
	VersaoTabelaFioB string                       `json:"versaoTabelaFioB"`
}

// Request is one computation. Gaps carries DataGap alerts raised by the
// collaborator that resolved Config (e.g. region not found).
type Request struct {
	ID     string                       `json:"id,omitempty"`
	Input  economics.CalculationInput   `json:"input"`
	Config economics.TariffRegimeConfig `json:"config"`
	Gaps   []alerts.Alert               `json:"-"`
}

// BatchItem is one entry of a batch response, in request order.
type BatchItem struct {
	Index  int            `json:"indice"`
	ID     string         `json:"id"`
	Result *PaybackResult `json:"resultado,omitempty"`
	Error  string         `json:"erro,omitempty"`
}

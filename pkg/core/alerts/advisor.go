// Package alerts turns inputs and intermediate results into advisory notes.
// Alerts never stop a computation; they travel with the result.
package alerts

import (
	"fmt"

	"solar_payback/pkg/core/economics"
	"solar_payback/pkg/core/projection"
	"solar_payback/pkg/core/valuation"
)

// Severity grades an alert for display.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "aviso"
	SeverityCritical Severity = "critico"
)

// Alert codes.
const (
	CodeDataGap           = "DADOS_AUSENTES"
	CodeUndersized        = "CAPACIDADE_SUBDIMENSIONADA"
	CodeOversized         = "GERACAO_EXCEDENTE"
	CodeNoExemption       = "SEM_ISENCAO_ICMS"
	CodeFioBPlateau       = "FIO_B_TETO_ATINGIDO"
	CodeSavingsFloored    = "ECONOMIA_ZERADA"
	CodePaybackNotReached = "PAYBACK_NAO_ATINGIDO"
	CodeIRRUnstable       = "IRR_INSTAVEL"
	CodeNonFinite         = "CALCULO_NAO_FINITO"
	CodeZeroICMS          = "ICMS_ZERO"
)

// UndersizedCoverage is the generation/consumption ratio below which the
// system is reported as undersized.
const UndersizedCoverage = 0.80

// Alert is one advisory note.
type Alert struct {
	Code     string   `json:"codigo"`
	Severity Severity `json:"severidade"`
	Message  string   `json:"mensagem"`
}

// DataGap reports a missing input replaced by a documented default.
func DataGap(field, format string, args ...interface{}) Alert {
	return Alert{
		Code:     CodeDataGap,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("Dado ausente (%s): ", field) + fmt.Sprintf(format, args...),
	}
}

// Context is everything the rules look at.
type Context struct {
	Input        economics.CalculationInput
	Config       economics.TariffRegimeConfig
	Conservative projection.ScenarioProjection
	Optimistic   projection.ScenarioProjection

	ConservativeIRR valuation.IRRResult
	OptimisticIRR   valuation.IRRResult

	// Plateau is the ceiling of the schedule in effect.
	Plateau float64
}

// BuildAlerts evaluates every rule in a fixed order.
func BuildAlerts(ctx Context) []Alert {
	var out []Alert

	// 1. Sizing
	monthlyGeneration := ctx.Input.InstalledCapacityKwp * economics.GenerationFactor(ctx.Input)
	coverage := 0.0
	if ctx.Input.MonthlyConsumptionKwh > 0 {
		coverage = monthlyGeneration / ctx.Input.MonthlyConsumptionKwh
	}
	switch {
	case coverage < UndersizedCoverage:
		out = append(out, Alert{
			Code:     CodeUndersized,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Capacidade instalada subdimensionada: geração estimada de %.0f kWh/mês cobre %.0f%% do consumo de %.0f kWh/mês.",
				monthlyGeneration, coverage*100, ctx.Input.MonthlyConsumptionKwh),
		})
	case coverage > 1:
		out = append(out, Alert{
			Code:     CodeOversized,
			Severity: SeverityInfo,
			Message: fmt.Sprintf("Geração estimada de %.0f kWh/mês excede o consumo; o excedente não foi considerado como economia.",
				monthlyGeneration),
		})
	}

	// 2. Exemption
	if available, pct := economics.ResolveExemption(ctx.Config); !available || pct == 0 {
		out = append(out, Alert{
			Code:     CodeNoExemption,
			Severity: SeverityInfo,
			Message:  "Nenhuma isenção de ICMS sobre créditos do SCEE configurada: os cenários otimista e conservador são idênticos.",
		})
	}

	if ctx.Config.IcmsPct == 0 {
		out = append(out, Alert{
			Code:     CodeZeroICMS,
			Severity: SeverityInfo,
			Message:  "Alíquota de ICMS igual a zero: confirme a configuração tributária da região.",
		})
	}

	// 3. Regulatory ramp
	if len(ctx.Conservative.Years) > 0 && ctx.Plateau > 0 && ctx.Conservative.Years[0].FioBPct >= ctx.Plateau {
		out = append(out, Alert{
			Code:     CodeFioBPlateau,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("Teto do Fio B (%.0f%%) já atingido no primeiro ano: nenhum aumento adicional foi modelado.", ctx.Plateau),
		})
	}

	// 4. Per-scenario outcomes
	for _, s := range []struct {
		proj projection.ScenarioProjection
		irr  valuation.IRRResult
	}{
		{ctx.Conservative, ctx.ConservativeIRR},
		{ctx.Optimistic, ctx.OptimisticIRR},
	} {
		out = append(out, scenarioAlerts(s.proj, s.irr)...)
	}

	return out
}

func scenarioAlerts(s projection.ScenarioProjection, irr valuation.IRRResult) []Alert {
	var out []Alert
	name := s.Scenario.Kind

	if s.NonFiniteYears > 0 {
		out = append(out, Alert{
			Code:     CodeNonFinite,
			Severity: SeverityCritical,
			Message: fmt.Sprintf("Cenário %s: em %d ano(s) os valores projetados excederam a faixa numérica e foram zerados; revise o reajuste tarifário e a tarifa.",
				name, s.NonFiniteYears),
		})
	}

	if s.FlooredYears > 0 {
		out = append(out, Alert{
			Code:     CodeSavingsFloored,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Cenário %s: em %d ano(s) o custo do Fio B e a conta mínima superam a economia bruta; a economia foi considerada zero.",
				name, s.FlooredYears),
		})
	}

	if !s.Reached() {
		out = append(out, Alert{
			Code:     CodePaybackNotReached,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("Cenário %s: payback não atingido em %d anos; revise as premissas.", name, len(s.Years)),
		})
	}

	if !irr.Plausible() {
		out = append(out, Alert{
			Code:     CodeIRRUnstable,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Cenário %s: a TIR não convergiu para um valor confiável após %d iterações; trate o valor como estimativa.",
				name, irr.Iterations),
		})
	}

	return out
}

// Messages flattens alerts into their display text, keeping order.
func Messages(alerts []Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Message
	}
	return out
}

// Has reports whether any alert carries code.
func Has(alerts []Alert, code string) bool {
	for _, a := range alerts {
		if a.Code == code {
			return true
		}
	}
	return false
}

// Package report renders a PaybackResult as a customer-facing markdown
// document and its HTML form.
package report

import (
	"fmt"
	"strings"

	"solar_payback/pkg/core/payback"
)

// Options tunes the generated document.
type Options struct {
	Title    string
	Customer string
	// ImpactYears limits the Fio B table; 0 shows the whole horizon.
	ImpactYears int
}

// BuildMarkdown assembles the report: headline table, tariff configuration,
// Fio B impact table and alerts.
func BuildMarkdown(res *payback.PaybackResult, opts Options) string {
	var b strings.Builder

	title := opts.Title
	if title == "" {
		title = "Análise de Payback Solar"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if opts.Customer != "" {
		fmt.Fprintf(&b, "**Cliente:** %s\n\n", opts.Customer)
	}

	// 1. Headline
	c, o := res.Conservador, res.Otimista
	b.WriteString("## Resumo\n\n")
	b.WriteString("| Indicador | Conservador | Otimista |\n")
	b.WriteString("|---|---:|---:|\n")
	row(&b, "Economia líquida mensal (1º ano)", FormatBRL(c.EconomiaLiquida), FormatBRL(o.EconomiaLiquida))
	row(&b, "Economia anual (1º ano)", FormatBRL(c.EconomiaAnual), FormatBRL(o.EconomiaAnual))
	row(&b, fmt.Sprintf("Economia total (%d anos)", res.HorizonteAnos), FormatBRL(c.EconomiaTotal), FormatBRL(o.EconomiaTotal))
	row(&b, "Payback", FormatPayback(c.PaybackAnos), FormatPayback(o.PaybackAnos))
	row(&b, "ROI", FormatPercent(c.ROI, 1), FormatPercent(o.ROI, 1))
	row(&b, "TIR", FormatPercent(c.TIR*100, 1), FormatPercent(o.TIR*100, 1))
	if res.InputUsado.DiscountRatePct != 0 {
		row(&b, fmt.Sprintf("VPL a %s", FormatPercent(res.InputUsado.DiscountRatePct, 1)), FormatBRL(c.VPL), FormatBRL(o.VPL))
	}
	row(&b, "Custo Fio B mensal (1º ano)", FormatBRL(c.CustoFioB), FormatBRL(o.CustoFioB))
	row(&b, "Conta mínima mensal", FormatBRL(c.ContaInevitavel), FormatBRL(o.ContaInevitavel))
	row(&b, "Energia compensada (kWh/mês)", FormatNumber(c.KwhCompensado, 0), FormatNumber(o.KwhCompensado, 0))
	b.WriteString("\n")

	// 2. Configuration
	cfg := res.ConfigUsada
	b.WriteString("## Premissas tarifárias\n\n")
	if cfg.Regiao != "" {
		fmt.Fprintf(&b, "- Região: %s\n", cfg.Regiao)
	}
	fmt.Fprintf(&b, "- ICMS: %s\n", FormatPercent(cfg.IcmsPct, 1))
	if cfg.SceeExemptionAvailable {
		fmt.Fprintf(&b, "- Isenção de ICMS no SCEE: %s\n", FormatPercent(cfg.SceeExemptionPct, 0))
	} else {
		b.WriteString("- Isenção de ICMS no SCEE: não disponível\n")
	}
	if len(res.FioBImpactoAnual) > 0 {
		fmt.Fprintf(&b, "- Fio B em %d: %s (tabela %s)\n", res.AnoBase, FormatPercent(res.FioBImpactoAnual[0].Pct, 0), res.VersaoTabelaFioB)
	}
	fmt.Fprintf(&b, "- Reajuste tarifário anual: %s\n", FormatPercent(res.InputUsado.AnnualTariffEscalationPct, 1))
	fmt.Fprintf(&b, "- Degradação anual dos painéis: %s\n", FormatPercent(res.InputUsado.AnnualPanelDegradationPct, 1))
	b.WriteString("\n")

	// 3. Fio B impact
	impact := res.FioBImpactoAnual
	if opts.ImpactYears > 0 && opts.ImpactYears < len(impact) {
		impact = impact[:opts.ImpactYears]
	}
	b.WriteString("## Impacto do Fio B\n\n")
	b.WriteString("| Ano | Calendário | Fio B | Custo Fio B | Economia conservadora | Economia otimista |\n")
	b.WriteString("|---:|---:|---:|---:|---:|---:|\n")
	for _, y := range impact {
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s | %s |\n",
			y.Year, y.CalendarYear, FormatPercent(y.Pct, 0),
			FormatBRL(y.FioBCost), FormatBRL(y.NetSavings), FormatBRL(y.NetSavingsOptimistic))
	}
	b.WriteString("\n")

	// 4. Alerts
	b.WriteString("## Alertas\n\n")
	if len(res.Alertas) == 0 {
		b.WriteString("Nenhum alerta.\n")
	}
	for _, a := range res.Alertas {
		fmt.Fprintf(&b, "- %s\n", a)
	}

	return b.String()
}

func row(b *strings.Builder, label, conservative, optimistic string) {
	fmt.Fprintf(b, "| %s | %s | %s |\n", label, conservative, optimistic)
}

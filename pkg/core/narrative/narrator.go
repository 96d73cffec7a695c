// Package narrative asks an LLM to explain a PaybackResult to the end customer
// in plain Portuguese.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"text/template"

	"go.uber.org/zap"

	"solar_payback/pkg/core/llm"
	"solar_payback/pkg/core/payback"
	"solar_payback/pkg/core/prompt"
	"solar_payback/pkg/core/report"
	"solar_payback/pkg/core/utils"
)

// ErrNoProvider is returned when no LLM is configured.
var ErrNoProvider = errors.New("narrative provider not configured")

// PromptID is the registry id of the narrative prompt.
const PromptID = "narrative.explain"

// DefaultPrompt is used when no prompt file overrides it.
var DefaultPrompt = prompt.PromptTemplate{
	ID:       PromptID,
	Name:     "Explicação do payback",
	Category: "narrative",
	Version:  "1",
	SystemPrompt: `Você é um consultor de energia solar. Explique resultados financeiros
para clientes residenciais em português do Brasil, com frases curtas e sem jargão.
Nunca invente números: use apenas os valores fornecidos. Responda em Markdown,
sem blocos de código e sem HTML.`,
	UserPromptTmpl: `Explique a análise abaixo{{if .Customer}} para {{.Customer}}{{end}} em até {{.MaxParagraphs}} parágrafos.

Cenário conservador (sem isenção de ICMS):
- Economia líquida mensal no 1º ano: {{brl .R.Conservador.EconomiaLiquida}}
- Payback: {{payback .R.Conservador.PaybackAnos}}
- Economia total em {{.R.HorizonteAnos}} anos: {{brl .R.Conservador.EconomiaTotal}}
- TIR: {{pct100 .R.Conservador.TIR}}

Cenário otimista{{if .R.ConfigUsada.SceeExemptionAvailable}} (com isenção de ICMS de {{pct .R.ConfigUsada.SceeExemptionPct 0}}){{end}}:
- Economia líquida mensal no 1º ano: {{brl .R.Otimista.EconomiaLiquida}}
- Payback: {{payback .R.Otimista.PaybackAnos}}
- Economia total em {{.R.HorizonteAnos}} anos: {{brl .R.Otimista.EconomiaTotal}}
- TIR: {{pct100 .R.Otimista.TIR}}

O Fio B (Lei 14.300) começa em {{pct (index .R.FioBImpactoAnual 0).Pct 0}} e sobe até o teto ao longo dos anos.
{{if .R.Alertas}}
Pontos de atenção:
{{range .R.Alertas}}- {{.}}
{{end}}{{end}}`,
}

var funcs = template.FuncMap{
	"brl":     report.FormatBRL,
	"pct":     report.FormatPercent,
	"payback": report.FormatPayback,
	"pct100":  func(v float64) string { return report.FormatPercent(v*100, 1) },
}

var defaultTemplate = template.Must(prompt.Parse(&DefaultPrompt, funcs))

// PromptData is what prompt templates see.
type PromptData struct {
	R             *payback.PaybackResult
	Customer      string
	MaxParagraphs int
}

// Narrator turns results into customer-facing text.
type Narrator struct {
	provider      llm.Provider
	logger        *zap.Logger
	maxParagraphs int
	system        string
	tmpl          *template.Template
}

// NewNarrator wraps provider. A nil provider yields ErrNoProvider on Explain.
func NewNarrator(provider llm.Provider, logger *zap.Logger) *Narrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Narrator{
		provider:      provider,
		logger:        logger,
		maxParagraphs: 4,
		system:        DefaultPrompt.SystemPrompt,
		tmpl:          defaultTemplate,
	}
}

// UsePrompt replaces the built-in prompt. The template sees PromptData and
// the brl, pct, pct100 and payback helpers.
func (n *Narrator) UsePrompt(pt *prompt.PromptTemplate) error {
	tmpl, err := prompt.Parse(pt, funcs)
	if err != nil {
		return fmt.Errorf("NARRATIVE_PROMPT_INVALID: %w", err)
	}
	n.tmpl = tmpl
	if pt.SystemPrompt != "" {
		n.system = pt.SystemPrompt
	}
	return nil
}

// Enabled reports whether a provider is configured.
func (n *Narrator) Enabled() bool {
	return n != nil && n.provider != nil
}

// BuildPrompt renders the user prompt for res.
func (n *Narrator) BuildPrompt(res *payback.PaybackResult, customer string) (string, error) {
	if res == nil || len(res.FioBImpactoAnual) == 0 {
		return "", fmt.Errorf("NARRATIVE_PROMPT_FAILED: empty result")
	}
	out, err := prompt.Execute(n.tmpl, PromptData{R: res, Customer: customer, MaxParagraphs: n.maxParagraphs})
	if err != nil {
		return "", fmt.Errorf("NARRATIVE_PROMPT_FAILED: %w", err)
	}
	return out, nil
}

// Explain generates the narrative for res.
func (n *Narrator) Explain(ctx context.Context, res *payback.PaybackResult, customer string) (string, error) {
	if !n.Enabled() {
		return "", ErrNoProvider
	}

	// 1. Prompt
	userPrompt, err := n.BuildPrompt(res, customer)
	if err != nil {
		return "", err
	}

	// 2. Generation
	raw, err := n.provider.GenerateResponse(ctx, userPrompt, n.system, nil)
	if err != nil {
		n.logger.Warn("narrative generation failed", zap.Error(err))
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}

	// 3. Cleanup and validation
	text := utils.CleanMarkdown(raw)
	if err := utils.ValidateMarkdown(text); err != nil {
		n.logger.Warn("narrative rejected", zap.Error(err), zap.Int("length", len(raw)))
		return "", err
	}

	n.logger.Debug("narrative generated", zap.Int("length", len(text)))
	return text, nil
}

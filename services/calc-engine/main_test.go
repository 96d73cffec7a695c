package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_payback/pkg/core/economics"
	"solar_payback/pkg/core/payback"
)

const payload = `{
  "input": {
    "monthlyConsumptionKwh": 400,
    "tariffPerKwh": 0.95,
    "installedCapacityKwp": 3.2,
    "investmentTotal": 18000,
    "annualTariffEscalationPct": 5,
    "annualPanelDegradationPct": 0.8,
    "baseGenerationFactor": 120,
    "startYear": 2025,
  },
  "config": {
    "icmsPct": 18,
    "currentFioBPct": 45,
    "fixedMonthlyCharges": 30,
    "sceeExemptionAvailable": true,
    "sceeExemptionPct": 100,
    "fioBShareOfTariffPct": 28,
  },
}`

func TestRun_Calculate(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-mode", "calculate", "-data", payload}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var res payback.PaybackResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
	assert.Equal(t, 2025, res.AnoBase)
	assert.Equal(t, economics.SourceRequest, res.ConfigUsada.Fonte)
	assert.True(t, res.Conservador.PaybackReached())
}

func TestRun_CheckInvalid(t *testing.T) {
	var stdout, stderr bytes.Buffer
	bad := strings.Replace(payload, `"investmentTotal": 18000`, `"investmentTotal": 0`, 1)
	code := run([]string{"-mode", "check", "-data", bad}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "investmentTotal")

	stdout.Reset()
	code = run([]string{"-mode", "check", "-data", payload}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Success")
}

func TestRun_ReportFromFileWithRegion(t *testing.T) {
	dir := t.TempDir()
	regions := filepath.Join(dir, "regions.yaml")
	require.NoError(t, os.WriteFile(regions, []byte(`versao: "t"
regioes:
  RS:
    icms_pct: 17
    current_fio_b_pct: 45
    fixed_monthly_charges: 30
`), 0o644))
	data := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(data, []byte(`{
  "regiao": "rs",
  "cliente": "Pedro",
  "input": {
    "monthlyConsumptionKwh": 400,
    "tariffPerKwh": 0.95,
    "installedCapacityKwp": 3.2,
    "investmentTotal": 18000,
    "annualTariffEscalationPct": 5,
    "annualPanelDegradationPct": 0.8,
    "baseGenerationFactor": 120,
    "startYear": 2025
  }
}`), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-mode", "report", "-file", data, "-regions", regions}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "**Cliente:** Pedro")
	assert.Contains(t, out, "- Região: RS")
	assert.Contains(t, out, "não disponível")
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"-mode", "calculate"}, &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"-mode", "bogus", "-data", payload}, &stdout, &stderr))
	assert.Equal(t, 1, run([]string{"-data", payload, "-schedule", "/does/not/exist.yaml"}, &stdout, &stderr))
}

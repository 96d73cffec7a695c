package economics

import (
	"errors"
	"math"
	"testing"
)

func scenarioOneInput() CalculationInput {
	return CalculationInput{
		MonthlyConsumptionKwh:     400,
		TariffPerKwh:              0.95,
		InstalledCapacityKwp:      3.2,
		InvestmentTotal:           18000,
		AnnualTariffEscalationPct: 5,
		AnnualPanelDegradationPct: 0.8,
		HorizonYears:              25,
	}
}

func scenarioOneConfig() TariffRegimeConfig {
	return TariffRegimeConfig{
		IcmsPct:                18,
		CurrentFioBPct:         45,
		FixedMonthlyCharges:    30,
		SceeExemptionAvailable: true,
		SceeExemptionPct:       100,
	}
}

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestComputeYear_FirstYear(t *testing.T) {
	calc := NewCalculator()
	in := scenarioOneInput()
	cfg := scenarioOneConfig()

	res := calc.ComputeYear(in, cfg, 1, Scenario{Kind: Conservative}, 45)

	// 3.2 kWp * 120 kWh/kWp = 384 kWh/month < 400 consumed
	if !approx(res.KwhOffset, 384*12, 1e-9) {
		t.Errorf("expected kwhOffset %.2f, got %.2f", 384.0*12, res.KwhOffset)
	}
	if !approx(res.NetCompensableTariff, 0.95*0.82, 1e-12) {
		t.Errorf("expected conservative tariff %.4f, got %.4f", 0.95*0.82, res.NetCompensableTariff)
	}
	expectedFioB := 4608 * 0.95 * 0.28 * 0.45
	if !approx(res.FioBCost, expectedFioB, 1e-6) {
		t.Errorf("expected fioB %.2f, got %.2f", expectedFioB, res.FioBCost)
	}
	if !approx(res.UnavoidableBill, 360, 1e-9) {
		t.Errorf("expected unavoidable 360, got %.2f", res.UnavoidableBill)
	}
	expectedNet := 4608*0.95*0.82 - expectedFioB - 360
	if !approx(res.NetSavings, expectedNet, 1e-6) {
		t.Errorf("expected net %.2f, got %.2f", expectedNet, res.NetSavings)
	}
	if res.Floored {
		t.Error("first year should not be floored")
	}
}

func TestComputeYear_CapsAtConsumption(t *testing.T) {
	calc := NewCalculator()
	in := scenarioOneInput()
	in.InstalledCapacityKwp = 50 // far more than the household uses

	res := calc.ComputeYear(in, scenarioOneConfig(), 1, Scenario{Kind: Optimistic, HonorExemption: true}, 0)
	if !approx(res.KwhOffset, 400*12, 1e-9) {
		t.Errorf("expected offset capped at %.0f, got %.2f", 400.0*12, res.KwhOffset)
	}
	if res.NetSavings > res.BillWithoutSolar {
		t.Errorf("net savings %.2f exceed bill without solar %.2f", res.NetSavings, res.BillWithoutSolar)
	}
}

func TestComputeYear_DegradationAndEscalation(t *testing.T) {
	calc := NewCalculator()
	in := scenarioOneInput()
	cfg := scenarioOneConfig()
	sc := Scenario{Kind: Conservative}

	y1 := calc.ComputeYear(in, cfg, 1, sc, 45)
	y3 := calc.ComputeYear(in, cfg, 3, sc, 45)

	if !approx(y3.KwhOffset, y1.KwhOffset*math.Pow(0.992, 2), 1e-6) {
		t.Errorf("expected degraded offset, got %.4f", y3.KwhOffset)
	}
	if !approx(y3.UnavoidableBill, 360*1.05*1.05, 1e-6) {
		t.Errorf("expected escalated minimum bill, got %.4f", y3.UnavoidableBill)
	}
}

func TestComputeYear_FloorsNegativeSavings(t *testing.T) {
	calc := NewCalculator()
	in := scenarioOneInput()
	in.InstalledCapacityKwp = 0.0001
	cfg := scenarioOneConfig()

	res := calc.ComputeYear(in, cfg, 1, Scenario{Kind: Conservative}, 90)
	if res.NetSavings != 0 {
		t.Errorf("expected floored net 0, got %.4f", res.NetSavings)
	}
	if !res.Floored {
		t.Error("expected Floored flag")
	}
}

func TestComputeYear_ZeroCapacityStillExecutes(t *testing.T) {
	in := scenarioOneInput()
	in.InstalledCapacityKwp = 0

	res := NewCalculator().ComputeYear(in, scenarioOneConfig(), 2, Scenario{Kind: Optimistic, HonorExemption: true}, 60)
	if res.KwhOffset != 0 || res.NetSavings != 0 {
		t.Errorf("expected zero offset and savings, got %.4f / %.4f", res.KwhOffset, res.NetSavings)
	}
}

func TestComputeYear_OverflowIsZeroedAndFlagged(t *testing.T) {
	in := scenarioOneInput()
	in.TariffPerKwh = 1e300
	in.AnnualTariffEscalationPct = MaxAnnualEscalationPct
	in.HorizonYears = MaxHorizonYears

	res := NewCalculator().ComputeYear(in, scenarioOneConfig(), MaxHorizonYears, Scenario{Kind: Optimistic, HonorExemption: true}, 90)
	if !res.NonFinite {
		t.Fatal("expected NonFinite flag")
	}
	for name, v := range map[string]float64{
		"gross":     res.GrossSavings,
		"fioB":      res.FioBCost,
		"minimum":   res.UnavoidableBill,
		"bill":      res.BillWithoutSolar,
		"net":       res.NetSavings,
		"kwhOffset": res.KwhOffset,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s: expected finite value, got %v", name, v)
		}
	}
	if res.NetSavings != 0 || res.Floored {
		t.Errorf("expected zeroed, unfloored net, got %.2f floored=%v", res.NetSavings, res.Floored)
	}

	if ok := NewCalculator().ComputeYear(scenarioOneInput(), scenarioOneConfig(), 25, Scenario{Kind: Conservative}, 90); ok.NonFinite {
		t.Error("ordinary inputs must not be flagged")
	}
}

func TestNetCompensableTariff(t *testing.T) {
	tests := []struct {
		name     string
		cfg      TariffRegimeConfig
		scenario Scenario
		expected float64
	}{
		{"conservative ignores exemption", TariffRegimeConfig{IcmsPct: 18, SceeExemptionAvailable: true, SceeExemptionPct: 100}, Scenario{Kind: Conservative}, 0.82},
		{"optimistic full exemption", TariffRegimeConfig{IcmsPct: 18, SceeExemptionAvailable: true, SceeExemptionPct: 100}, Scenario{Kind: Optimistic, HonorExemption: true}, 1.0},
		{"optimistic half exemption", TariffRegimeConfig{IcmsPct: 20, SceeExemptionAvailable: true, SceeExemptionPct: 50}, Scenario{Kind: Optimistic, HonorExemption: true}, 0.90},
		{"optimistic without exemption", TariffRegimeConfig{IcmsPct: 18, SceeExemptionPct: 100}, Scenario{Kind: Optimistic, HonorExemption: true}, 0.82},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetCompensableTariff(1.0, tt.cfg, tt.scenario)
			if !approx(got, tt.expected, 1e-12) {
				t.Errorf("expected %.4f, got %.4f", tt.expected, got)
			}
		})
	}
}

func TestConservativeNeverBeatsOptimistic(t *testing.T) {
	calc := NewCalculator()
	in := scenarioOneInput()
	cfg := scenarioOneConfig()
	scenarios := Scenarios()

	for year := 1; year <= 25; year++ {
		pct := math.Min(90, 45+15*float64(year-1))
		cons := calc.ComputeYear(in, cfg, year, scenarios[0], pct)
		opt := calc.ComputeYear(in, cfg, year, scenarios[1], pct)
		if cons.NetSavings > opt.NetSavings {
			t.Fatalf("year %d: conservative %.2f > optimistic %.2f", year, cons.NetSavings, opt.NetSavings)
		}
	}
}

func TestValidate_Input(t *testing.T) {
	if err := scenarioOneInput().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := scenarioOneInput()
	bad.MonthlyConsumptionKwh = 0
	bad.TariffPerKwh = -1
	bad.HorizonYears = -5

	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError in chain, got %T", err)
	}
	if ve.Field != "monthlyConsumptionKwh" {
		t.Errorf("expected first field monthlyConsumptionKwh, got %s", ve.Field)
	}
}

func TestValidate_EscalationBounds(t *testing.T) {
	tests := []struct {
		pct   float64
		valid bool
	}{
		{-100, false},
		{-99.9, true},
		{0, true},
		{MaxAnnualEscalationPct, true},
		{100.01, false},
		{1e9, false},
		{1e200, false},
		{math.Inf(1), false},
		{math.NaN(), false},
	}
	for _, tt := range tests {
		in := scenarioOneInput()
		in.AnnualTariffEscalationPct = tt.pct
		err := in.Validate()
		if tt.valid && err != nil {
			t.Errorf("escalation %v: unexpected error: %v", tt.pct, err)
		}
		if !tt.valid {
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != "annualTariffEscalationPct" {
				t.Errorf("escalation %v: expected annualTariffEscalationPct error, got %v", tt.pct, err)
			}
		}
	}
}

func TestValidate_Config(t *testing.T) {
	if err := scenarioOneConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := scenarioOneConfig()
	cfg.IcmsPct = 120
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for icms 120, got %v", err)
	}

	cfg = scenarioOneConfig()
	cfg.FixedMonthlyCharges = -1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative charges, got %v", err)
	}
}

func TestConnectionType_AvailabilityKwh(t *testing.T) {
	if kwh, ok := ConnectionTrifasico.AvailabilityKwh(); !ok || kwh != 100 {
		t.Errorf("expected 100 kWh for trifasico, got %.0f (%v)", kwh, ok)
	}
	if _, ok := ConnectionType("bogus").AvailabilityKwh(); ok {
		t.Error("expected unknown connection type to be rejected")
	}
}

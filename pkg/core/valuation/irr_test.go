package valuation

import (
	"math"
	"testing"
)

// annuity returns the constant payment that repays outlay over n years at rate.
func annuity(outlay, rate float64, n int) float64 {
	return outlay * rate / (1 - math.Pow(1+rate, -float64(n)))
}

func TestCalculateIRR_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		years int
	}{
		{"Typical residential", 0.17, 25},
		{"Low return", 0.03, 25},
		{"High return", 0.45, 25},
		{"Short horizon", 0.12, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outlay := 18000.0
			payment := annuity(outlay, tt.rate, tt.years)
			flows := make([]float64, tt.years)
			for i := range flows {
				flows[i] = payment
			}

			res := CalculateIRR(NewIRRInput(outlay, flows))
			if !res.Converged {
				t.Fatalf("expected convergence, stopped at %.6f after %d iterations", res.Rate, res.Iterations)
			}
			if math.Abs(res.Rate-tt.rate) > 0.01 {
				t.Errorf("expected %.4f, got %.4f", tt.rate, res.Rate)
			}
			if !res.Plausible() {
				t.Errorf("expected plausible result, got %+v", res)
			}
		})
	}
}

func TestCalculateIRR_GrowingFlows(t *testing.T) {
	flows := make([]float64, 25)
	cf := 2000.0
	for i := range flows {
		flows[i] = cf
		cf *= 1.05
	}

	res := CalculateIRR(NewIRRInput(18000, flows))
	if !res.Converged {
		t.Fatalf("expected convergence, got %+v", res)
	}
	if npv := NPV(18000, flows, res.Rate); math.Abs(npv) > DefaultIRRTolerance {
		t.Errorf("expected NPV within tolerance at IRR, got %.4f", npv)
	}
}

func TestCalculateIRR_AllNegativeFlows(t *testing.T) {
	flows := []float64{-100, -100, -100, -100, -100}

	res := CalculateIRR(NewIRRInput(1000, flows))
	if res.Plausible() {
		t.Errorf("expected implausible result for all-negative flows, got %+v", res)
	}
	if res.Iterations == 0 || res.Iterations > DefaultIRRMaxIterations {
		t.Errorf("expected bounded iterations, got %d", res.Iterations)
	}
}

func TestCalculateIRR_ZeroFlows(t *testing.T) {
	res := CalculateIRR(NewIRRInput(1000, make([]float64, 25)))
	if res.Converged {
		t.Errorf("expected no convergence for zero flows, got %+v", res)
	}
	if res.Plausible() {
		t.Error("expected implausible result for zero flows")
	}
}

func TestCalculateIRR_DefaultsApplied(t *testing.T) {
	flows := []float64{600, 600}
	res := CalculateIRR(IRRInput{InitialOutlay: 1000, CashFlows: flows})
	if !res.Converged {
		t.Fatalf("expected convergence with zero-valued solver params, got %+v", res)
	}
	// 1000 = 600/(1+r) + 600/(1+r)^2  =>  r ~ 0.1307
	if math.Abs(res.Rate-0.1307) > 0.002 {
		t.Errorf("expected 0.1307, got %.4f", res.Rate)
	}
}

func TestNPV(t *testing.T) {
	npv := NPV(100, []float64{110}, 0.10)
	if math.Abs(npv) > 1e-9 {
		t.Errorf("expected 0, got %.9f", npv)
	}
	if got := NPV(100, []float64{50, 50}, 0); got != 0 {
		t.Errorf("expected 0 at zero rate, got %.4f", got)
	}
}

func TestCalculateROI(t *testing.T) {
	if got := CalculateROI(54000, 18000); got != 200 {
		t.Errorf("expected 200, got %.2f", got)
	}
	if got := CalculateROI(9000, 18000); got != -50 {
		t.Errorf("expected -50, got %.2f", got)
	}
	if got := CalculateROI(100, 0); got != 0 {
		t.Errorf("expected 0 for zero investment, got %.2f", got)
	}
}

package valuation

import (
	"math"
)

// Solver defaults for annual solar cash flows. Tolerance is in currency units.
const (
	DefaultIRRGuess         = 0.10
	DefaultIRRMaxIterations = 50
	DefaultIRRTolerance     = 1.0
	derivativeFloor         = 1e-10
)

// Plausible IRR band; iterates outside it are reported but flagged.
const (
	MinPlausibleIRR = -0.99
	MaxPlausibleIRR = 10.0
)

// IRRInput holds an initial outlay followed by end-of-year cash flows (t = 1..n).
type IRRInput struct {
	InitialOutlay float64
	CashFlows     []float64
	Guess         float64 // e.g. 0.10
	MaxIterations int
	Tolerance     float64 // |NPV| below which the rate is accepted
}

// NewIRRInput fills solver parameters with their defaults.
func NewIRRInput(initialOutlay float64, cashFlows []float64) IRRInput {
	return IRRInput{
		InitialOutlay: initialOutlay,
		CashFlows:     cashFlows,
		Guess:         DefaultIRRGuess,
		MaxIterations: DefaultIRRMaxIterations,
		Tolerance:     DefaultIRRTolerance,
	}
}

// IRRResult is the last iterate plus how the search ended.
type IRRResult struct {
	Rate       float64
	Iterations int
	Converged  bool
	NPVAtRate  float64
}

// Plausible reports whether the rate can be shown as fact.
func (r IRRResult) Plausible() bool {
	return r.Converged &&
		!math.IsNaN(r.Rate) && !math.IsInf(r.Rate, 0) &&
		r.Rate > MinPlausibleIRR && r.Rate < MaxPlausibleIRR
}

// CalculateIRR runs Newton-Raphson on f(r) = -outlay + sum(CF_t / (1+r)^t).
// It never fails: a search that does not converge returns its last iterate
// with Converged=false.
func CalculateIRR(input IRRInput) IRRResult {
	maxIter := input.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultIRRMaxIterations
	}
	tol := input.Tolerance
	if tol <= 0 {
		tol = DefaultIRRTolerance
	}

	rate := input.Guess
	result := IRRResult{Rate: rate}

	for i := 1; i <= maxIter; i++ {
		result.Iterations = i

		// 1. Rate must keep every discount factor defined
		if 1+rate <= 0 {
			break
		}

		// 2. Evaluate NPV and its derivative at the current rate
		npv, deriv := npvAndDerivative(input.InitialOutlay, input.CashFlows, rate)
		result.Rate = rate
		result.NPVAtRate = npv

		if math.Abs(npv) < tol {
			result.Converged = true
			break
		}
		if math.Abs(deriv) < derivativeFloor {
			break
		}

		// 3. Newton step
		rate -= npv / deriv
		result.Rate = rate
	}

	return result
}

// NPV discounts cash flows at rate and subtracts the outlay.
func NPV(initialOutlay float64, cashFlows []float64, rate float64) float64 {
	npv, _ := npvAndDerivative(initialOutlay, cashFlows, rate)
	return npv
}

func npvAndDerivative(initialOutlay float64, cashFlows []float64, rate float64) (float64, float64) {
	npv := -initialOutlay
	deriv := 0.0
	discount := 1.0
	for i, cf := range cashFlows {
		t := float64(i + 1)
		discount /= 1 + rate // (1+r)^-t
		npv += cf * discount
		deriv -= t * cf * discount / (1 + rate)
	}
	return npv, deriv
}

// CalculateROI returns (total - investment) / investment in percent.
func CalculateROI(totalReturn, investment float64) float64 {
	if investment == 0 {
		return 0
	}
	return (totalReturn - investment) / investment * 100
}

package credit

import (
	"math"

	customError "github.com/segyhp/credit-simulator/pkg/errors"
)

const (
	DefaultIRRGuess  = 0.10
	MaxIRRIterations = 100
	IRRTolerance     = 1e-5
)

// IRRResult is the outcome of the Newton-Raphson solve. When Converged is
// false, Rate is the last estimate reached within the iteration budget.
type IRRResult struct {
	Rate       float64
	Iterations int
	Converged  bool
}

// IRRSolver is a bounded Newton-Raphson root finder over NPV.
type IRRSolver struct {
	Guess         float64
	MaxIterations int
	Tolerance     float64
}

func DefaultIRRSolver() IRRSolver {
	return IRRSolver{
		Guess:         DefaultIRRGuess,
		MaxIterations: MaxIRRIterations,
		Tolerance:     IRRTolerance,
	}
}

// SolveIRR runs the default solver from guess.
func SolveIRR(cashFlows []float64, guess float64) (IRRResult, error) {
	s := DefaultIRRSolver()
	s.Guess = guess
	return s.Solve(cashFlows)
}

// Solve finds the per-period rate at which the NPV of cashFlows is zero,
// cashFlows[t] being discounted by (1+rate)^t. Exhausting the budget is not an
// error: the last estimate comes back with Converged unset.
func (s IRRSolver) Solve(cashFlows []float64) (IRRResult, error) {
	if len(cashFlows) < 2 {
		return IRRResult{}, customError.WrapInvalidParameters("IRR needs at least two cash flows", nil)
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = MaxIRRIterations
	}
	if s.Tolerance <= 0 {
		s.Tolerance = IRRTolerance
	}

	rate := s.Guess
	for i := 1; i <= s.MaxIterations; i++ {
		npv, dnpv := npvAndDerivative(cashFlows, rate)
		if dnpv == 0 || math.IsNaN(dnpv) || math.IsInf(dnpv, 0) {
			return IRRResult{Rate: rate, Iterations: i}, customError.WrapNumericalDegeneracy(
				"NPV derivative vanished during IRR solve")
		}

		next := rate - npv/dnpv
		if next <= -1 {
			// (1+rate)^t is undefined past -1, step halfway to the bound instead
			next = (rate - 1) / 2
		}
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return IRRResult{Rate: rate, Iterations: i}, customError.WrapNumericalDegeneracy(
				"IRR estimate is not finite")
		}

		if math.Abs(next-rate) < s.Tolerance {
			return IRRResult{Rate: next, Iterations: i, Converged: true}, nil
		}
		rate = next
	}

	return IRRResult{Rate: rate, Iterations: s.MaxIterations}, nil
}

func npvAndDerivative(cashFlows []float64, rate float64) (npv, dnpv float64) {
	for t, cf := range cashFlows {
		ft := float64(t)
		npv += cf / math.Pow(1+rate, ft)
		dnpv += -ft * cf / math.Pow(1+rate, ft+1)
	}
	return npv, dnpv
}

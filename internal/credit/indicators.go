package credit

import (
	"math"

	customError "github.com/segyhp/credit-simulator/pkg/errors"
)

// Indicators are the summary figures of a schedule.
type Indicators struct {
	TEA  float64
	TCEA float64
	VAN  float64
	TIR  IRRResult
}

// EffectiveAnnualRate is the TEA in force for the quoted terms. It converts
// the quoted rate directly instead of compounding the monthly rate back up.
func EffectiveAnnualRate(p LoanParameters) float64 {
	return resolveEffectiveAnnual(p.AnnualInterestRate, p.InterestRateType, p.Capitalization)
}

// CashFlows lays out the lender's view of the loan: the disbursement as an
// outflow at t=0 followed by every installment collected.
func CashFlows(loanAmount float64, periods []PaymentPeriod) []float64 {
	flows := make([]float64, 0, len(periods)+1)
	flows = append(flows, -loanAmount)
	for _, p := range periods {
		flows = append(flows, p.TotalPayment)
	}
	return flows
}

// NetPresentValue discounts each payment at the annual TEA with exponent
// (i+1)/12, i being the 0-based period index.
func NetPresentValue(loanAmount, tea float64, periods []PaymentPeriod) float64 {
	van := -loanAmount
	for i, p := range periods {
		van += p.TotalPayment / math.Pow(1+tea, float64(i+1)/MonthsPerYear)
	}
	return van
}

// TotalEffectiveAnnualCost annualizes total cash paid against principal:
// (totalPaid / loanAmount)^(12/totalPeriods) - 1.
func TotalEffectiveAnnualCost(loanAmount float64, periods []PaymentPeriod) float64 {
	if len(periods) == 0 {
		return 0
	}
	totalPaid := sumTotalPayments(periods)
	return math.Pow(totalPaid/loanAmount, float64(MonthsPerYear)/float64(len(periods))) - 1
}

// ComputeIndicators derives TEA, TCEA, VAN and TIR. With strict set, an IRR
// that exhausts its iteration budget is an error instead of a best estimate.
func ComputeIndicators(p LoanParameters, s Schedule, solver IRRSolver, strict bool) (Indicators, error) {
	tea := EffectiveAnnualRate(p)

	tir, err := solver.Solve(CashFlows(p.LoanAmount, s.Periods))
	if err != nil {
		return Indicators{}, err
	}
	if strict && !tir.Converged {
		return Indicators{}, customError.WrapNonConvergence(tir.Iterations, tir.Rate)
	}

	ind := Indicators{
		TEA:  tea,
		TCEA: TotalEffectiveAnnualCost(p.LoanAmount, s.Periods),
		VAN:  NetPresentValue(p.LoanAmount, tea, s.Periods),
		TIR:  tir,
	}
	for _, v := range []float64{ind.TEA, ind.TCEA, ind.VAN} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Indicators{}, customError.WrapNumericalDegeneracy("indicator is not finite")
		}
	}
	return ind, nil
}

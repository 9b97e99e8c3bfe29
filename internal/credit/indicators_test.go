package credit

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/segyhp/credit-simulator/pkg/errors"
)

func flatPeriods(n int, payment float64) []PaymentPeriod {
	periods := make([]PaymentPeriod, n)
	for i := range periods {
		periods[i] = PaymentPeriod{PeriodNumber: i + 1, TotalPayment: payment}
	}
	return periods
}

func TestEffectiveAnnualRate(t *testing.T) {
	tests := []struct {
		name     string
		params   LoanParameters
		expected float64
	}{
		{
			name:     "effective passes through",
			params:   LoanParameters{AnnualInterestRate: 0.08, InterestRateType: RateTypeEffective},
			expected: 0.08,
		},
		{
			name:     "nominal quarterly",
			params:   LoanParameters{AnnualInterestRate: 0.12, InterestRateType: RateTypeNominal, Capitalization: CapitalizationQuarterly},
			expected: math.Pow(1.03, 4) - 1,
		},
		{
			name:     "nominal without capitalization",
			params:   LoanParameters{AnnualInterestRate: 0.12, InterestRateType: RateTypeNominal},
			expected: 0.12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EffectiveAnnualRate(tt.params))
		})
	}
}

func TestCashFlows(t *testing.T) {
	flows := CashFlows(1000, flatPeriods(3, 350))
	assert.Equal(t, []float64{-1000, 350, 350, 350}, flows)
}

func TestNetPresentValue(t *testing.T) {
	// one payment a month after disbursement, discounted (1+TEA)^(1/12)
	van := NetPresentValue(100, 0.10, flatPeriods(1, 110))
	assert.InDelta(t, 9.129783779, van, 1e-9)

	assert.Equal(t, 0.0, NetPresentValue(12000, 0, flatPeriods(12, 1000)))
}

func TestTotalEffectiveAnnualCost(t *testing.T) {
	assert.InDelta(t, 0.05, TotalEffectiveAnnualCost(12000, flatPeriods(12, 1050)), 1e-12)
	assert.InDelta(t, math.Sqrt(1.1)-1, TotalEffectiveAnnualCost(12000, flatPeriods(24, 550)), 1e-12)
	assert.Equal(t, 0.0, TotalEffectiveAnnualCost(12000, nil))
}

func TestComputeIndicators(t *testing.T) {
	params := LoanParameters{
		LoanAmount:         100000,
		AnnualInterestRate: 0.08,
		InterestRateType:   RateTypeEffective,
		LoanTermYears:      1,
		GracePeriodType:    GraceNone,
		StartDate:          scheduleStart,
	}
	r := eightPercentMonthly()
	s, err := GenerateSchedule(ScheduleInput{
		LoanAmount:      params.LoanAmount,
		MonthlyRate:     r,
		TotalPeriods:    12,
		GracePeriodType: GraceNone,
		StartDate:       scheduleStart,
	})
	require.NoError(t, err)

	solver := DefaultIRRSolver()
	ind, err := ComputeIndicators(params, s, solver, false)
	require.NoError(t, err)

	assert.Equal(t, 0.08, ind.TEA)
	assert.True(t, ind.TIR.Converged)
	assert.InDelta(t, r, ind.TIR.Rate, 1e-6)
	// TEA applied with (i+1)/12 equals discounting at the monthly rate
	assert.InDelta(t, 0, ind.VAN, 1e-6)
	assert.InDelta(t, 12*s.FixedInstallment/100000-1, ind.TCEA, 1e-12)
}

func TestComputeIndicators_Strict(t *testing.T) {
	params := LoanParameters{LoanAmount: 100, AnnualInterestRate: 0.1, InterestRateType: RateTypeEffective, LoanTermYears: 1}
	periods := flatPeriods(2, 60)
	solver := IRRSolver{Guess: 0.1, MaxIterations: 1, Tolerance: IRRTolerance}

	ind, err := ComputeIndicators(params, Schedule{Periods: periods}, solver, false)
	require.NoError(t, err)
	assert.False(t, ind.TIR.Converged)

	_, err = ComputeIndicators(params, Schedule{Periods: periods}, solver, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrNonConvergence))
	assert.Equal(t, customError.ErrCodeNonConvergence, customError.CodeOf(err))
}

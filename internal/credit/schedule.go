package credit

import (
	"fmt"
	"math"
	"time"

	customError "github.com/segyhp/credit-simulator/pkg/errors"
	"github.com/segyhp/credit-simulator/pkg/utils"
)

// ScheduleInput holds what the schedule generator needs once rates are resolved.
type ScheduleInput struct {
	LoanAmount        float64
	MonthlyRate       float64
	TotalPeriods      int
	GracePeriodType   GracePeriodType
	GracePeriodMonths int
	InsuranceRate     float64 // annual, applied to the outstanding balance
	StartDate         time.Time
}

// Schedule is the generated table plus the installment it was built from.
type Schedule struct {
	Periods          []PaymentPeriod
	FixedInstallment float64
}

// FixedInstallment is the French annuity installment
// balance * r * (1+r)^n / ((1+r)^n - 1). A zero rate repays in equal parts.
func FixedInstallment(balance, monthlyRate float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	if monthlyRate == 0 {
		return balance / float64(periods)
	}
	factor := math.Pow(1+monthlyRate, float64(periods))
	return balance * monthlyRate * factor / (factor - 1)
}

// GenerateSchedule builds the period-by-period French amortization table.
func GenerateSchedule(in ScheduleInput) (Schedule, error) {
	if in.TotalPeriods <= 0 {
		return Schedule{}, customError.WrapInvalidParameters(
			fmt.Sprintf("total periods must be positive, got %d", in.TotalPeriods), nil)
	}

	graceMonths := in.GracePeriodMonths
	if in.GracePeriodType == GraceNone {
		graceMonths = 0
	}
	if graceMonths < 0 || graceMonths >= in.TotalPeriods {
		return Schedule{}, customError.WrapInvalidParameters(
			fmt.Sprintf("grace period of %d months must be below the %d total periods", graceMonths, in.TotalPeriods), nil)
	}

	monthlyInsurance := in.InsuranceRate / MonthsPerYear
	paymentPeriods := in.TotalPeriods - graceMonths

	// Computed once from the original amount: no principal is repaid during
	// grace, so the balance entering the payment phase is still LoanAmount.
	installment := FixedInstallment(in.LoanAmount, in.MonthlyRate, paymentPeriods)
	if math.IsNaN(installment) || math.IsInf(installment, 0) {
		return Schedule{}, customError.WrapNumericalDegeneracy(
			fmt.Sprintf("installment is not finite for monthly rate %g over %d periods", in.MonthlyRate, paymentPeriods))
	}

	periods := make([]PaymentPeriod, 0, in.TotalPeriods)
	balance := in.LoanAmount

	for period := 1; period <= in.TotalPeriods; period++ {
		isGrace := period <= graceMonths
		interest := balance * in.MonthlyRate
		insurance := balance * monthlyInsurance

		var principal, total float64
		switch {
		case isGrace && in.GracePeriodType == GraceTotal:
			// interest is waived, it neither bills nor capitalizes
			principal = 0
			total = insurance
		case isGrace && in.GracePeriodType == GracePartial:
			principal = 0
			total = interest + insurance
		default:
			principal = installment - interest
			total = installment + insurance
		}

		ending := balance - principal
		if ending <= BalanceFloor {
			ending = 0
		}

		periods = append(periods, PaymentPeriod{
			PeriodNumber:     period,
			PaymentDate:      utils.AddMonths(in.StartDate, period),
			BeginningBalance: balance,
			PrincipalPayment: principal,
			InterestPayment:  interest,
			InsurancePayment: insurance,
			TotalPayment:     total,
			EndingBalance:    ending,
			IsGracePeriod:    isGrace,
		})

		balance = ending
	}

	if balance != 0 {
		return Schedule{}, customError.WrapNumericalDegeneracy(
			fmt.Sprintf("schedule leaves a balance of %g after %d periods at monthly rate %g", balance, in.TotalPeriods, in.MonthlyRate))
	}

	return Schedule{Periods: periods, FixedInstallment: installment}, nil
}

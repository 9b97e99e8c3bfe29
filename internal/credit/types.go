package credit

import "time"

// InterestRateType tells how AnnualInterestRate is quoted.
type InterestRateType string

const (
	RateTypeNominal   InterestRateType = "nominal"
	RateTypeEffective InterestRateType = "effective"
)

// Capitalization is the compounding frequency of a nominal rate.
type Capitalization string

const (
	CapitalizationMonthly    Capitalization = "monthly"
	CapitalizationBimonthly  Capitalization = "bimonthly"
	CapitalizationQuarterly  Capitalization = "quarterly"
	CapitalizationSemiannual Capitalization = "semiannual"
	CapitalizationAnnual     Capitalization = "annual"
)

// GracePeriodType selects what is billed during the initial grace window.
type GracePeriodType string

const (
	GraceNone    GracePeriodType = "none"
	GraceTotal   GracePeriodType = "total"
	GracePartial GracePeriodType = "partial"
)

const (
	MonthsPerYear = 12

	// BalanceFloor is the residual balance at or below which a period ends at zero.
	BalanceFloor = 0.01
)

// LoanParameters are the commercial terms of one credit simulation.
type LoanParameters struct {
	LoanAmount         float64          `json:"loan_amount" validate:"gt=0"`
	AnnualInterestRate float64          `json:"annual_interest_rate" validate:"gte=0"`
	InterestRateType   InterestRateType `json:"interest_rate_type" validate:"required,oneof=nominal effective"`
	Capitalization     Capitalization   `json:"capitalization,omitempty" validate:"omitempty,oneof=monthly bimonthly quarterly semiannual annual"`
	LoanTermYears      int              `json:"loan_term_years" validate:"gt=0"`
	GracePeriodType    GracePeriodType  `json:"grace_period_type" validate:"required,oneof=none total partial"`
	GracePeriodMonths  int              `json:"grace_period_months"`
	InsuranceRate      float64          `json:"insurance_rate" validate:"gte=0"`
	StartDate          time.Time        `json:"start_date"`
	Currency           string           `json:"currency,omitempty"`
}

// TotalPeriods is the number of monthly periods of the loan.
func (p LoanParameters) TotalPeriods() int {
	return p.LoanTermYears * MonthsPerYear
}

// EffectiveGraceMonths is the grace window actually applied.
func (p LoanParameters) EffectiveGraceMonths() int {
	if p.GracePeriodType == GraceNone {
		return 0
	}
	return p.GracePeriodMonths
}

// PaymentPeriod is one row of the amortization schedule.
type PaymentPeriod struct {
	PeriodNumber     int       `json:"period_number"`
	PaymentDate      time.Time `json:"payment_date"`
	BeginningBalance float64   `json:"beginning_balance"`
	PrincipalPayment float64   `json:"principal_payment"`
	InterestPayment  float64   `json:"interest_payment"`
	InsurancePayment float64   `json:"insurance_payment"`
	TotalPayment     float64   `json:"total_payment"`
	EndingBalance    float64   `json:"ending_balance"`
	IsGracePeriod    bool      `json:"grace_period"`
}

// ScheduleResult is the full outcome of a calculation.
type ScheduleResult struct {
	Periods          []PaymentPeriod `json:"payment_schedule"`
	FixedInstallment float64         `json:"fixed_installment"`
	MonthlyRate      float64         `json:"monthly_rate"`
	TEA              float64         `json:"tea"`
	TCEA             float64         `json:"tcea"`
	VAN              float64         `json:"van"`
	TIR              float64         `json:"tir"`
	TIRConverged     bool            `json:"tir_converged"`
	TIRIterations    int             `json:"tir_iterations"`
	Currency         string          `json:"currency,omitempty"`
}

// TotalPaid sums TotalPayment over every period.
func (r *ScheduleResult) TotalPaid() float64 {
	return sumTotalPayments(r.Periods)
}

func sumTotalPayments(periods []PaymentPeriod) float64 {
	total := 0.0
	for _, p := range periods {
		total += p.TotalPayment
	}
	return total
}

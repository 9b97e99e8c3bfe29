package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SimulationStatusActive  = "active"
	SimulationStatusExpired = "expired"
)

// Simulation represents a stored credit simulation
type Simulation struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	UserID             string          `json:"user_id" db:"user_id"`
	ClientID           string          `json:"client_id" db:"client_id"`
	PropertyID         string          `json:"property_id" db:"property_id"`
	PropertyPrice      decimal.Decimal `json:"property_price" db:"property_price"`
	InitialPayment     decimal.Decimal `json:"initial_payment" db:"initial_payment"`
	TechoPropioBonus   decimal.Decimal `json:"techo_propio_bonus" db:"techo_propio_bonus"`
	LoanAmount         decimal.Decimal `json:"loan_amount" db:"loan_amount"`
	Currency           string          `json:"currency" db:"currency"`
	InterestRateType   string          `json:"interest_rate_type" db:"interest_rate_type"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate" db:"annual_interest_rate"`
	Capitalization     *string         `json:"capitalization" db:"capitalization"`
	LoanTermYears      int             `json:"loan_term_years" db:"loan_term_years"`
	GracePeriodType    string          `json:"grace_period_type" db:"grace_period_type"`
	GracePeriodMonths  int             `json:"grace_period_months" db:"grace_period_months"`
	InsuranceRate      decimal.Decimal `json:"insurance_rate" db:"insurance_rate"`
	StartDate          time.Time       `json:"start_date" db:"start_date"`
	FixedInstallment   decimal.Decimal `json:"fixed_installment" db:"fixed_installment"`
	TEA                decimal.Decimal `json:"tea" db:"tea"`
	TCEA               decimal.Decimal `json:"tcea" db:"tcea"`
	VAN                decimal.Decimal `json:"van" db:"van"`
	TIR                decimal.Decimal `json:"tir" db:"tir"`
	TIRConverged       bool            `json:"tir_converged" db:"tir_converged"`
	Status             string          `json:"status" db:"status"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateSimulationRequest struct {
	UserID             string          `json:"user_id" validate:"required"`
	ClientID           string          `json:"client_id" validate:"required"`
	PropertyID         string          `json:"property_id" validate:"required"`
	PropertyPrice      decimal.Decimal `json:"property_price" validate:"decimal_gte=0"`
	InitialPayment     decimal.Decimal `json:"initial_payment" validate:"decimal_gte=0"`
	TechoPropioBonus   decimal.Decimal `json:"techo_propio_bonus" validate:"decimal_gte=0"`
	LoanAmount         decimal.Decimal `json:"loan_amount" validate:"decimal_gte=0"`
	Currency           string          `json:"currency" validate:"omitempty,len=3"`
	InterestRateType   string          `json:"interest_rate_type" validate:"required,oneof=nominal effective"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate" validate:"decimal_gte=0"`
	Capitalization     string          `json:"capitalization" validate:"omitempty,oneof=monthly bimonthly quarterly semiannual annual"`
	LoanTermYears      int             `json:"loan_term_years" validate:"required,gt=0,lte=40"`
	GracePeriodType    string          `json:"grace_period_type" validate:"required,oneof=none total partial"`
	GracePeriodMonths  int             `json:"grace_period_months"`
	InsuranceRate      decimal.Decimal `json:"insurance_rate" validate:"decimal_gte=0"`
	StartDate          *time.Time      `json:"start_date,omitempty"`
}

// EffectiveLoanAmount is the amount to finance. When LoanAmount is omitted it
// is derived as property price minus initial payment minus the housing bonus.
func (r *CreateSimulationRequest) EffectiveLoanAmount() decimal.Decimal {
	if r.LoanAmount.IsPositive() {
		return r.LoanAmount
	}
	return r.PropertyPrice.Sub(r.InitialPayment).Sub(r.TechoPropioBonus)
}

type SimulationResponse struct {
	Simulation *Simulation             `json:"simulation"`
	Schedule   []*PaymentScheduleEntry `json:"schedule"`
}

type SimulationListResponse struct {
	UserID      string        `json:"user_id"`
	Simulations []*Simulation `json:"simulations"`
}

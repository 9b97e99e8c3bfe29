package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentScheduleEntry represents one stored period of a simulation schedule
type PaymentScheduleEntry struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	SimulationID     uuid.UUID       `json:"simulation_id" db:"simulation_id"`
	PeriodNumber     int             `json:"period_number" db:"period_number"`
	PaymentDate      time.Time       `json:"payment_date" db:"payment_date"`
	BeginningBalance decimal.Decimal `json:"beginning_balance" db:"beginning_balance"`
	PrincipalPayment decimal.Decimal `json:"principal_payment" db:"principal_payment"`
	InterestPayment  decimal.Decimal `json:"interest_payment" db:"interest_payment"`
	InsurancePayment decimal.Decimal `json:"insurance_payment" db:"insurance_payment"`
	TotalPayment     decimal.Decimal `json:"total_payment" db:"total_payment"`
	EndingBalance    decimal.Decimal `json:"ending_balance" db:"ending_balance"`
	GracePeriod      bool            `json:"grace_period" db:"grace_period"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

type ScheduleResponse struct {
	SimulationID uuid.UUID               `json:"simulation_id"`
	Schedule     []*PaymentScheduleEntry `json:"schedule"`
}

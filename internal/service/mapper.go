package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/credit-simulator/internal/credit"
	"github.com/segyhp/credit-simulator/internal/domain"
	"github.com/segyhp/credit-simulator/pkg/utils"
)

func toLoanParameters(request *domain.CreateSimulationRequest, startDate time.Time, currency string) credit.LoanParameters {
	return credit.LoanParameters{
		LoanAmount:         request.EffectiveLoanAmount().InexactFloat64(),
		AnnualInterestRate: request.AnnualInterestRate.InexactFloat64(),
		InterestRateType:   credit.InterestRateType(request.InterestRateType),
		Capitalization:     credit.Capitalization(request.Capitalization),
		LoanTermYears:      request.LoanTermYears,
		GracePeriodType:    credit.GracePeriodType(request.GracePeriodType),
		GracePeriodMonths:  request.GracePeriodMonths,
		InsuranceRate:      request.InsuranceRate.InexactFloat64(),
		StartDate:          startDate,
		Currency:           currency,
	}
}

func newSimulation(request *domain.CreateSimulationRequest, params credit.LoanParameters, result *credit.ScheduleResult, now time.Time) *domain.Simulation {
	var capitalization *string
	if request.Capitalization != "" {
		c := request.Capitalization
		capitalization = &c
	}

	return &domain.Simulation{
		ID:                 uuid.New(),
		UserID:             request.UserID,
		ClientID:           request.ClientID,
		PropertyID:         request.PropertyID,
		PropertyPrice:      request.PropertyPrice,
		InitialPayment:     request.InitialPayment,
		TechoPropioBonus:   request.TechoPropioBonus,
		LoanAmount:         utils.Money(params.LoanAmount),
		Currency:           params.Currency,
		InterestRateType:   request.InterestRateType,
		AnnualInterestRate: request.AnnualInterestRate,
		Capitalization:     capitalization,
		LoanTermYears:      request.LoanTermYears,
		GracePeriodType:    request.GracePeriodType,
		GracePeriodMonths:  params.EffectiveGraceMonths(),
		InsuranceRate:      request.InsuranceRate,
		StartDate:          params.StartDate,
		FixedInstallment:   utils.Money(result.FixedInstallment),
		TEA:                utils.Rate(result.TEA),
		TCEA:               utils.Rate(result.TCEA),
		VAN:                utils.Money(result.VAN),
		TIR:                utils.Rate(result.TIR),
		TIRConverged:       result.TIRConverged,
		Status:             domain.SimulationStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func newScheduleEntries(simulationID uuid.UUID, periods []credit.PaymentPeriod, now time.Time) []*domain.PaymentScheduleEntry {
	entries := make([]*domain.PaymentScheduleEntry, 0, len(periods))
	for _, p := range periods {
		entries = append(entries, &domain.PaymentScheduleEntry{
			ID:               uuid.New(),
			SimulationID:     simulationID,
			PeriodNumber:     p.PeriodNumber,
			PaymentDate:      p.PaymentDate,
			BeginningBalance: utils.Money(p.BeginningBalance),
			PrincipalPayment: utils.Money(p.PrincipalPayment),
			InterestPayment:  utils.Money(p.InterestPayment),
			InsurancePayment: utils.Money(p.InsurancePayment),
			TotalPayment:     utils.Money(p.TotalPayment),
			EndingBalance:    utils.Money(p.EndingBalance),
			GracePeriod:      p.IsGracePeriod,
			CreatedAt:        now,
		})
	}
	return entries
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/credit-simulator/internal/domain"
)

const simulationColumns = `id, user_id, client_id, property_id, property_price, initial_payment, techo_propio_bonus,
		loan_amount, currency, interest_rate_type, annual_interest_rate, capitalization, loan_term_years,
		grace_period_type, grace_period_months, insurance_rate, start_date, fixed_installment,
		tea, tcea, van, tir, tir_converged, status, created_at, updated_at`

type simulationRepository struct {
	db *sqlx.DB
}

func NewSimulationRepository(db *sqlx.DB) SimulationRepository {
	return &simulationRepository{db: db}
}

func (r *simulationRepository) Create(ctx context.Context, simulation *domain.Simulation, entries []*domain.PaymentScheduleEntry) error {
	query := `
		INSERT INTO credit_simulations (` + simulationColumns + `)
		VALUES (:id, :user_id, :client_id, :property_id, :property_price, :initial_payment, :techo_propio_bonus,
			:loan_amount, :currency, :interest_rate_type, :annual_interest_rate, :capitalization, :loan_term_years,
			:grace_period_type, :grace_period_months, :insurance_rate, :start_date, :fixed_installment,
			:tea, :tcea, :van, :tir, :tir_converged, :status, :created_at, :updated_at)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, query, simulation); err != nil {
		return err
	}

	if err := insertSchedule(ctx, tx, entries); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *simulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Simulation, error) {
	query := `
		SELECT ` + simulationColumns + `
		FROM credit_simulations
		WHERE id = $1
	`

	var simulation domain.Simulation
	err := r.db.GetContext(ctx, &simulation, query, id)
	if err != nil {
		return nil, err
	}

	return &simulation, nil
}

func (r *simulationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Simulation, error) {
	query := `
		SELECT ` + simulationColumns + `
		FROM credit_simulations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var simulations []*domain.Simulation
	err := r.db.SelectContext(ctx, &simulations, query, userID)
	if err != nil {
		return nil, err
	}

	return simulations, nil
}

func insertSchedule(ctx context.Context, tx *sqlx.Tx, entries []*domain.PaymentScheduleEntry) error {
	query := `
		INSERT INTO payment_schedules (id, simulation_id, period_number, payment_date, beginning_balance,
			principal_payment, interest_payment, insurance_payment, total_payment, ending_balance, grace_period, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range entries {
		_, err := stmt.ExecContext(ctx,
			entry.ID,
			entry.SimulationID,
			entry.PeriodNumber,
			entry.PaymentDate,
			entry.BeginningBalance,
			entry.PrincipalPayment,
			entry.InterestPayment,
			entry.InsurancePayment,
			entry.TotalPayment,
			entry.EndingBalance,
			entry.GracePeriod,
			entry.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *simulationRepository) GetScheduleBySimulationID(ctx context.Context, simulationID uuid.UUID) ([]*domain.PaymentScheduleEntry, error) {
	query := `
		SELECT id, simulation_id, period_number, payment_date, beginning_balance, principal_payment,
			interest_payment, insurance_payment, total_payment, ending_balance, grace_period, created_at
		FROM payment_schedules
		WHERE simulation_id = $1
		ORDER BY period_number
	`

	var entries []*domain.PaymentScheduleEntry
	err := r.db.SelectContext(ctx, &entries, query, simulationID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *simulationRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE credit_simulations
		SET status = $1, updated_at = $2
		WHERE status = $3 AND created_at < $4
		RETURNING id
	`

	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query,
		domain.SimulationStatusExpired,
		time.Now(),
		domain.SimulationStatusActive,
		cutoff,
	)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

package repository_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/credit-simulator/internal/domain"
	"github.com/segyhp/credit-simulator/internal/repository"
)

// setupTestDB connects to TEST_DATABASE_URL and applies the schema. Tests
// are skipped when no database is configured.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../deployments/init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	cleanupTestData(db)
	return db
}

func cleanupTestData(db *sqlx.DB) {
	db.Exec("DELETE FROM payment_schedules")
	db.Exec("DELETE FROM credit_simulations")
}

func newSimulation(userID string, createdAt time.Time) *domain.Simulation {
	capitalization := "monthly"
	return &domain.Simulation{
		ID:                 uuid.New(),
		UserID:             userID,
		ClientID:           "client-1",
		PropertyID:         "property-1",
		PropertyPrice:      decimal.NewFromInt(400000),
		InitialPayment:     decimal.NewFromInt(80000),
		TechoPropioBonus:   decimal.NewFromInt(20000),
		LoanAmount:         decimal.NewFromInt(300000),
		Currency:           "PEN",
		InterestRateType:   "nominal",
		AnnualInterestRate: decimal.NewFromFloat(0.12),
		Capitalization:     &capitalization,
		LoanTermYears:      20,
		GracePeriodType:    "none",
		InsuranceRate:      decimal.NewFromFloat(0.0005),
		StartDate:          time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		FixedInstallment:   decimal.NewFromFloat(3303.26),
		TEA:                decimal.NewFromFloat(0.12682503),
		TCEA:               decimal.NewFromFloat(0.13321064),
		VAN:                decimal.Zero,
		TIR:                decimal.NewFromFloat(0.01),
		TIRConverged:       true,
		Status:             domain.SimulationStatusActive,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
}

func TestSimulationRepository_CreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSimulationRepository(db)
	ctx := context.Background()

	simulation := newSimulation("user-1", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, repo.Create(ctx, simulation, nil))

	stored, err := repo.GetByID(ctx, simulation.ID)
	require.NoError(t, err)

	assert.Equal(t, simulation.ID, stored.ID)
	assert.True(t, simulation.LoanAmount.Equal(stored.LoanAmount))
	assert.True(t, simulation.TEA.Equal(stored.TEA))
	require.NotNil(t, stored.Capitalization)
	assert.Equal(t, "monthly", *stored.Capitalization)
	assert.True(t, simulation.StartDate.Equal(stored.StartDate))
	assert.Equal(t, domain.SimulationStatusActive, stored.Status)
}

func TestSimulationRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSimulationRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestSimulationRepository_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSimulationRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	older := newSimulation("user-1", now.Add(-time.Hour))
	newer := newSimulation("user-1", now)
	other := newSimulation("user-2", now)
	for _, s := range []*domain.Simulation{older, newer, other} {
		require.NoError(t, repo.Create(ctx, s, nil))
	}

	simulations, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, simulations, 2)
	assert.Equal(t, newer.ID, simulations[0].ID)
	assert.Equal(t, older.ID, simulations[1].ID)
}

func TestSimulationRepository_Schedule(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSimulationRepository(db)
	ctx := context.Background()

	simulation := newSimulation("user-1", time.Now().UTC())

	entries := make([]*domain.PaymentScheduleEntry, 0, 3)
	for i := 3; i >= 1; i-- {
		entries = append(entries, &domain.PaymentScheduleEntry{
			ID:               uuid.New(),
			SimulationID:     simulation.ID,
			PeriodNumber:     i,
			PaymentDate:      simulation.StartDate.AddDate(0, i, 0),
			BeginningBalance: decimal.NewFromInt(300000),
			TotalPayment:     decimal.NewFromFloat(3303.26),
			EndingBalance:    decimal.NewFromInt(297000),
			CreatedAt:        time.Now().UTC(),
		})
	}
	require.NoError(t, repo.Create(ctx, simulation, entries))

	stored, err := repo.GetScheduleBySimulationID(ctx, simulation.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, e := range stored {
		assert.Equal(t, i+1, e.PeriodNumber)
		assert.True(t, decimal.NewFromFloat(3303.26).Equal(e.TotalPayment))
	}
}

func TestSimulationRepository_CreateIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSimulationRepository(db)
	ctx := context.Background()

	simulation := newSimulation("user-1", time.Now().UTC())
	entries := []*domain.PaymentScheduleEntry{
		{ID: uuid.New(), SimulationID: simulation.ID, PeriodNumber: 1, CreatedAt: time.Now()},
		{ID: uuid.New(), SimulationID: simulation.ID, PeriodNumber: 1, CreatedAt: time.Now()},
	}
	assert.Error(t, repo.Create(ctx, simulation, entries))

	_, err := repo.GetByID(ctx, simulation.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	stored, err := repo.GetScheduleBySimulationID(ctx, simulation.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSimulationRepository_ExpireOlderThan(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSimulationRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	stale := newSimulation("user-1", now.AddDate(0, 0, -40))
	fresh := newSimulation("user-1", now)
	require.NoError(t, repo.Create(ctx, stale, nil))
	require.NoError(t, repo.Create(ctx, fresh, nil))

	ids, err := repo.ExpireOlderThan(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{stale.ID}, ids)

	stored, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SimulationStatusExpired, stored.Status)

	// already expired rows are not returned twice
	ids, err = repo.ExpireOlderThan(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

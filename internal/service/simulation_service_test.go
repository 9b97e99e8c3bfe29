package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/credit-simulator/internal/config"
	"github.com/segyhp/credit-simulator/internal/credit"
	"github.com/segyhp/credit-simulator/internal/domain"
	"github.com/segyhp/credit-simulator/internal/mocks"
	customError "github.com/segyhp/credit-simulator/pkg/errors"
)

var fixedNow = time.Date(2025, 3, 10, 15, 4, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			DefaultCurrency:   "PEN",
			QuoteValidityDays: 30,
		},
	}
}

func newTestService() (*SimulationService, *mocks.MockSimulationRepository, *mocks.MockScheduleCache) {
	repo := &mocks.MockSimulationRepository{}
	cache := &mocks.MockScheduleCache{}
	svc := NewSimulationService(repo, cache, credit.NewEngine(), testConfig(), nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, cache
}

func mortgageRequest() *domain.CreateSimulationRequest {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	return &domain.CreateSimulationRequest{
		UserID:             "user-1",
		ClientID:           "client-1",
		PropertyID:         "property-1",
		PropertyPrice:      decimal.NewFromInt(400000),
		InitialPayment:     decimal.NewFromInt(80000),
		TechoPropioBonus:   decimal.NewFromInt(20000),
		InterestRateType:   "effective",
		AnnualInterestRate: decimal.NewFromFloat(0.08),
		LoanTermYears:      20,
		GracePeriodType:    "total",
		GracePeriodMonths:  6,
		InsuranceRate:      decimal.NewFromFloat(0.0005),
		StartDate:          &start,
	}
}

func TestCreateSimulation_Success(t *testing.T) {
	svc, repo, cache := newTestService()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Simulation) bool {
		return s.LoanAmount.Equal(decimal.NewFromInt(300000)) &&
			s.Currency == "PEN" &&
			s.Status == domain.SimulationStatusActive &&
			s.Capitalization == nil
	}), mock.MatchedBy(func(entries []*domain.PaymentScheduleEntry) bool {
		return len(entries) == 240
	})).Return(nil).Once()
	cache.On("SetSchedule", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	simulation, entries, err := svc.CreateSimulation(context.Background(), mortgageRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, simulation.ID)
	assert.True(t, simulation.FixedInstallment.IsPositive())
	assert.True(t, simulation.TIRConverged)
	assert.Equal(t, fixedNow, simulation.CreatedAt)
	assert.Equal(t, 6, simulation.GracePeriodMonths)

	require.Len(t, entries, 240)
	assert.True(t, entries[0].GracePeriod)
	assert.False(t, entries[6].GracePeriod)
	assert.True(t, entries[0].BeginningBalance.Equal(decimal.NewFromInt(300000)))
	assert.True(t, entries[239].EndingBalance.IsZero())
	assert.Equal(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), entries[0].PaymentDate)
	for _, e := range entries {
		assert.Equal(t, simulation.ID, e.SimulationID)
		assert.True(t, e.TotalPayment.Equal(e.TotalPayment.Round(2)), "period %d", e.PeriodNumber)
	}

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCreateSimulation_DefaultsStartDateAndKeepsCapitalization(t *testing.T) {
	svc, repo, cache := newTestService()
	request := mortgageRequest()
	request.StartDate = nil
	request.InterestRateType = "nominal"
	request.Capitalization = "monthly"
	request.Currency = "USD"

	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	cache.On("SetSchedule", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	simulation, entries, err := svc.CreateSimulation(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), simulation.StartDate)
	assert.Equal(t, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), entries[0].PaymentDate)
	require.NotNil(t, simulation.Capitalization)
	assert.Equal(t, "monthly", *simulation.Capitalization)
	assert.Equal(t, "USD", simulation.Currency)
}

func TestCreateSimulation_NoGraceIgnoresNegativeMonths(t *testing.T) {
	svc, repo, cache := newTestService()
	request := mortgageRequest()
	request.GracePeriodType = "none"
	request.GracePeriodMonths = -3

	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	cache.On("SetSchedule", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	simulation, entries, err := svc.CreateSimulation(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, 0, simulation.GracePeriodMonths)
	require.Len(t, entries, 240)
	assert.False(t, entries[0].GracePeriod)
}

func TestCreateSimulation_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.CreateSimulationRequest)
	}{
		{
			name: "down payment covers the property",
			mutate: func(r *domain.CreateSimulationRequest) {
				r.InitialPayment = decimal.NewFromInt(380000)
			},
		},
		{
			name: "grace covers the whole term",
			mutate: func(r *domain.CreateSimulationRequest) {
				r.LoanTermYears = 1
				r.GracePeriodMonths = 12
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache := newTestService()
			request := mortgageRequest()
			tt.mutate(request)

			simulation, entries, err := svc.CreateSimulation(context.Background(), request)
			assert.Nil(t, simulation)
			assert.Nil(t, entries)
			assert.True(t, errors.Is(err, customError.ErrInvalidParameters), "got %v", err)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			cache.AssertNotCalled(t, "SetSchedule", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateSimulation_DatabaseError(t *testing.T) {
	svc, repo, cache := newTestService()
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	simulation, entries, err := svc.CreateSimulation(context.Background(), mortgageRequest())
	require.Error(t, err)
	assert.Nil(t, simulation)
	assert.Nil(t, entries)
	assert.Equal(t, customError.ErrCodeDatabaseError, customError.CodeOf(err))
	cache.AssertNotCalled(t, "SetSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSimulation_StoresSimulationAndScheduleTogether(t *testing.T) {
	svc, repo, cache := newTestService()

	var stored *domain.Simulation
	var storedEntries []*domain.PaymentScheduleEntry
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.Simulation)
			storedEntries = args.Get(2).([]*domain.PaymentScheduleEntry)
		}).
		Return(errors.New("disk full")).Once()

	_, _, err := svc.CreateSimulation(context.Background(), mortgageRequest())
	require.Error(t, err)
	assert.Equal(t, customError.ErrCodeDatabaseError, customError.CodeOf(err))

	// one write carries the row and every schedule entry, so a failure
	// leaves neither behind
	repo.AssertNumberOfCalls(t, "Create", 1)
	require.NotNil(t, stored)
	require.Len(t, storedEntries, 240)
	for _, e := range storedEntries {
		assert.Equal(t, stored.ID, e.SimulationID)
	}
	cache.AssertNotCalled(t, "SetSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSimulation_CacheFailureIsNotFatal(t *testing.T) {
	svc, repo, cache := newTestService()
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	cache.On("SetSchedule", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	simulation, _, err := svc.CreateSimulation(context.Background(), mortgageRequest())
	require.NoError(t, err)
	assert.NotNil(t, simulation)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	svc, repo, cache := newTestService()

	result, err := svc.Preview(context.Background(), mortgageRequest())
	require.NoError(t, err)

	assert.Len(t, result.Periods, 240)
	assert.Equal(t, "PEN", result.Currency)
	assert.Equal(t, 300000.0, result.Periods[0].BeginningBalance)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "SetSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSimulation(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetByID", mock.Anything, id).Return(&domain.Simulation{ID: id}, nil).Once()

		simulation, err := svc.GetSimulation(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, simulation.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.GetSimulation(context.Background(), id)
		assert.True(t, errors.Is(err, customError.ErrSimulationNotFound), "got %v", err)
		assert.Contains(t, err.Error(), id.String())
	})

	t.Run("database error", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetByID", mock.Anything, id).Return(nil, errors.New("timeout")).Once()

		_, err := svc.GetSimulation(context.Background(), id)
		assert.Equal(t, customError.ErrCodeDatabaseError, customError.CodeOf(err))
	})
}

func TestGetSchedule_CacheHit(t *testing.T) {
	svc, repo, cache := newTestService()
	id := uuid.New()
	cached := []*domain.PaymentScheduleEntry{{SimulationID: id, PeriodNumber: 1}}
	cache.On("GetSchedule", mock.Anything, id).Return(cached, true, nil).Once()

	entries, err := svc.GetSchedule(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, cached, entries)
	repo.AssertNotCalled(t, "GetScheduleBySimulationID", mock.Anything, mock.Anything)
}

func TestGetSchedule_CacheMissReadsThrough(t *testing.T) {
	tests := []struct {
		name     string
		cacheErr error
	}{
		{name: "miss"},
		{name: "cache error", cacheErr: errors.New("redis down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache := newTestService()
			id := uuid.New()
			stored := []*domain.PaymentScheduleEntry{{SimulationID: id, PeriodNumber: 1}, {SimulationID: id, PeriodNumber: 2}}

			cache.On("GetSchedule", mock.Anything, id).Return(nil, false, tt.cacheErr).Once()
			repo.On("GetByID", mock.Anything, id).Return(&domain.Simulation{ID: id}, nil).Once()
			repo.On("GetScheduleBySimulationID", mock.Anything, id).Return(stored, nil).Once()
			cache.On("SetSchedule", mock.Anything, id, stored).Return(nil).Once()

			entries, err := svc.GetSchedule(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, stored, entries)

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestGetSchedule_EmptyScheduleIsNotCached(t *testing.T) {
	svc, repo, cache := newTestService()
	id := uuid.New()
	cache.On("GetSchedule", mock.Anything, id).Return(nil, false, nil).Once()
	repo.On("GetByID", mock.Anything, id).Return(&domain.Simulation{ID: id}, nil).Once()
	repo.On("GetScheduleBySimulationID", mock.Anything, id).Return([]*domain.PaymentScheduleEntry{}, nil).Once()

	entries, err := svc.GetSchedule(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, entries)
	cache.AssertNotCalled(t, "SetSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSchedule_UnknownSimulation(t *testing.T) {
	svc, repo, cache := newTestService()
	id := uuid.New()
	cache.On("GetSchedule", mock.Anything, id).Return(nil, false, nil).Once()
	repo.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows).Once()

	_, err := svc.GetSchedule(context.Background(), id)
	assert.True(t, errors.Is(err, customError.ErrSimulationNotFound), "got %v", err)
	cache.AssertNotCalled(t, "SetSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestListSimulations(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("ListByUser", mock.Anything, "user-1").Return(nil, nil).Once()

	simulations, err := svc.ListSimulations(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, simulations)
	assert.Empty(t, simulations)
}

func TestExpireStaleSimulations(t *testing.T) {
	svc, repo, cache := newTestService()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	cutoff := fixedNow.Add(-30 * 24 * time.Hour)

	repo.On("ExpireOlderThan", mock.Anything, cutoff).Return(ids, nil).Once()
	cache.On("DeleteSchedule", mock.Anything, ids).Return(nil).Once()

	count, err := svc.ExpireStaleSimulations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestExpireStaleSimulations_DatabaseError(t *testing.T) {
	svc, repo, cache := newTestService()
	repo.On("ExpireOlderThan", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()

	count, err := svc.ExpireStaleSimulations(context.Background())
	assert.Equal(t, 0, count)
	assert.Equal(t, customError.ErrCodeDatabaseError, customError.CodeOf(err))
	cache.AssertNotCalled(t, "DeleteSchedule", mock.Anything, mock.Anything)
}

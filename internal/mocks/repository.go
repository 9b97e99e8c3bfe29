package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/credit-simulator/internal/domain"
)

type MockSimulationRepository struct {
	mock.Mock
}

func (m *MockSimulationRepository) Create(ctx context.Context, simulation *domain.Simulation, entries []*domain.PaymentScheduleEntry) error {
	args := m.Called(ctx, simulation, entries)
	return args.Error(0)
}

func (m *MockSimulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Simulation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Simulation), args.Error(1)
}

func (m *MockSimulationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Simulation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Simulation), args.Error(1)
}

func (m *MockSimulationRepository) GetScheduleBySimulationID(ctx context.Context, simulationID uuid.UUID) ([]*domain.PaymentScheduleEntry, error) {
	args := m.Called(ctx, simulationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaymentScheduleEntry), args.Error(1)
}

func (m *MockSimulationRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockScheduleCache struct {
	mock.Mock
}

func (m *MockScheduleCache) GetSchedule(ctx context.Context, simulationID uuid.UUID) ([]*domain.PaymentScheduleEntry, bool, error) {
	args := m.Called(ctx, simulationID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*domain.PaymentScheduleEntry), args.Bool(1), args.Error(2)
}

func (m *MockScheduleCache) SetSchedule(ctx context.Context, simulationID uuid.UUID, entries []*domain.PaymentScheduleEntry) error {
	args := m.Called(ctx, simulationID, entries)
	return args.Error(0)
}

func (m *MockScheduleCache) DeleteSchedule(ctx context.Context, simulationIDs ...uuid.UUID) error {
	args := m.Called(ctx, simulationIDs)
	return args.Error(0)
}

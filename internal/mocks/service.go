package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/credit-simulator/internal/credit"
	"github.com/segyhp/credit-simulator/internal/domain"
)

type MockSimulationService struct {
	mock.Mock
}

func (m *MockSimulationService) Preview(ctx context.Context, request *domain.CreateSimulationRequest) (*credit.ScheduleResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credit.ScheduleResult), args.Error(1)
}

func (m *MockSimulationService) CreateSimulation(ctx context.Context, request *domain.CreateSimulationRequest) (*domain.Simulation, []*domain.PaymentScheduleEntry, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Simulation), args.Get(1).([]*domain.PaymentScheduleEntry), args.Error(2)
}

func (m *MockSimulationService) GetSimulation(ctx context.Context, simulationID uuid.UUID) (*domain.Simulation, error) {
	args := m.Called(ctx, simulationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Simulation), args.Error(1)
}

func (m *MockSimulationService) GetSchedule(ctx context.Context, simulationID uuid.UUID) ([]*domain.PaymentScheduleEntry, error) {
	args := m.Called(ctx, simulationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaymentScheduleEntry), args.Error(1)
}

func (m *MockSimulationService) ListSimulations(ctx context.Context, userID string) ([]*domain.Simulation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Simulation), args.Error(1)
}

// NewMockSimulationService creates a new mock simulation service instance
func NewMockSimulationService() *MockSimulationService {
	return &MockSimulationService{}
}

type MockDBPinger struct {
	mock.Mock
}

func (m *MockDBPinger) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockRedisPinger struct {
	mock.Mock
}

func (m *MockRedisPinger) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called(ctx)
	return redis.NewStatusResult("PONG", args.Error(0))
}

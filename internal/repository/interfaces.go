package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/credit-simulator/internal/domain"
)

// SimulationRepository defines the interface for simulation data operations
type SimulationRepository interface {
	// Create stores a simulation together with its payment schedule in one
	// transaction
	Create(ctx context.Context, simulation *domain.Simulation, entries []*domain.PaymentScheduleEntry) error

	// GetByID retrieves a simulation by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Simulation, error)

	// ListByUser retrieves the simulations of a user, newest first
	ListByUser(ctx context.Context, userID string) ([]*domain.Simulation, error)

	// GetScheduleBySimulationID retrieves the schedule of a simulation ordered by period
	GetScheduleBySimulationID(ctx context.Context, simulationID uuid.UUID) ([]*domain.PaymentScheduleEntry, error)

	// ExpireOlderThan marks active simulations created before cutoff as expired
	// and returns the IDs it expired
	ExpireOlderThan(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}

// ScheduleCache defines the interface for cached schedules. A miss returns
// false with a nil error.
type ScheduleCache interface {
	GetSchedule(ctx context.Context, simulationID uuid.UUID) ([]*domain.PaymentScheduleEntry, bool, error)
	SetSchedule(ctx context.Context, simulationID uuid.UUID, entries []*domain.PaymentScheduleEntry) error
	DeleteSchedule(ctx context.Context, simulationIDs ...uuid.UUID) error
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/segyhp/credit-simulator/internal/config"
	"github.com/segyhp/credit-simulator/internal/credit"
	"github.com/segyhp/credit-simulator/internal/domain"
	"github.com/segyhp/credit-simulator/internal/metrics"
	"github.com/segyhp/credit-simulator/internal/repository"
	"github.com/segyhp/credit-simulator/internal/tracing"
	customError "github.com/segyhp/credit-simulator/pkg/errors"
	"github.com/segyhp/credit-simulator/pkg/utils"
)

// Calculator produces a schedule and its indicators from loan parameters
type Calculator interface {
	Calculate(params credit.LoanParameters) (*credit.ScheduleResult, error)
}

type SimulationService struct {
	SimulationRepo repository.SimulationRepository
	Cache          repository.ScheduleCache
	calculator     Calculator
	config         *config.Config
	logger         *zap.Logger
	now            func() time.Time
}

func NewSimulationService(
	simulationRepo repository.SimulationRepository,
	cache repository.ScheduleCache,
	calculator Calculator,
	config *config.Config,
	logger *zap.Logger,
) *SimulationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulationService{
		SimulationRepo: simulationRepo,
		Cache:          cache,
		calculator:     calculator,
		config:         config,
		logger:         logger,
		now:            time.Now,
	}
}

// Preview runs the calculation without storing anything
func (s *SimulationService) Preview(ctx context.Context, request *domain.CreateSimulationRequest) (*credit.ScheduleResult, error) {
	ctx, span := tracing.Tracer().Start(ctx, "SimulationService.Preview")
	defer span.End()

	params, err := s.loanParameters(request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return s.calculate(ctx, params)
}

// CreateSimulation calculates the schedule, stores the simulation with its
// schedule and warms the schedule cache
func (s *SimulationService) CreateSimulation(ctx context.Context, request *domain.CreateSimulationRequest) (*domain.Simulation, []*domain.PaymentScheduleEntry, error) {
	ctx, span := tracing.Tracer().Start(ctx, "SimulationService.CreateSimulation")
	defer span.End()

	params, err := s.loanParameters(request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	result, err := s.calculate(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	now := s.now()
	simulation := newSimulation(request, params, result, now)
	entries := newScheduleEntries(simulation.ID, result.Periods, now)

	if err := s.SimulationRepo.Create(ctx, simulation, entries); err != nil {
		s.logger.Error("failed to store simulation", zap.Error(err), zap.String("user_id", request.UserID))
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, customError.WrapDatabaseError(err)
	}

	if err := s.Cache.SetSchedule(ctx, simulation.ID, entries); err != nil {
		s.logger.Warn("failed to cache payment schedule", zap.Error(err), zap.Stringer("simulation_id", simulation.ID))
	}

	span.SetAttributes(attribute.String("simulation.id", simulation.ID.String()))
	s.logger.Info("simulation created",
		zap.Stringer("simulation_id", simulation.ID),
		zap.String("user_id", simulation.UserID),
		zap.Int("periods", len(entries)),
	)

	return simulation, entries, nil
}

// GetSimulation retrieves a stored simulation
func (s *SimulationService) GetSimulation(ctx context.Context, simulationID uuid.UUID) (*domain.Simulation, error) {
	ctx, span := tracing.Tracer().Start(ctx, "SimulationService.GetSimulation")
	defer span.End()

	simulation, err := s.SimulationRepo.GetByID(ctx, simulationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapSimulationNotFound(simulationID.String())
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, customError.WrapDatabaseError(err)
	}

	return simulation, nil
}

// GetSchedule returns the payment schedule of a simulation, reading through
// the cache
func (s *SimulationService) GetSchedule(ctx context.Context, simulationID uuid.UUID) ([]*domain.PaymentScheduleEntry, error) {
	ctx, span := tracing.Tracer().Start(ctx, "SimulationService.GetSchedule")
	defer span.End()

	entries, ok, err := s.Cache.GetSchedule(ctx, simulationID)
	if err != nil {
		s.logger.Warn("schedule cache read failed", zap.Error(err), zap.Stringer("simulation_id", simulationID))
	}
	if ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return entries, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	if _, err := s.GetSimulation(ctx, simulationID); err != nil {
		return nil, err
	}

	entries, err = s.SimulationRepo.GetScheduleBySimulationID(ctx, simulationID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, customError.WrapDatabaseError(err)
	}

	if len(entries) == 0 {
		return entries, nil
	}

	if err := s.Cache.SetSchedule(ctx, simulationID, entries); err != nil {
		s.logger.Warn("failed to cache payment schedule", zap.Error(err), zap.Stringer("simulation_id", simulationID))
	}

	return entries, nil
}

// ListSimulations returns the simulations of a user, newest first
func (s *SimulationService) ListSimulations(ctx context.Context, userID string) ([]*domain.Simulation, error) {
	ctx, span := tracing.Tracer().Start(ctx, "SimulationService.ListSimulations")
	defer span.End()

	simulations, err := s.SimulationRepo.ListByUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, customError.WrapDatabaseError(err)
	}
	if simulations == nil {
		simulations = []*domain.Simulation{}
	}

	return simulations, nil
}

// ExpireStaleSimulations expires active simulations older than the quote
// validity window and evicts their cached schedules
func (s *SimulationService) ExpireStaleSimulations(ctx context.Context) (int, error) {
	ctx, span := tracing.Tracer().Start(ctx, "SimulationService.ExpireStaleSimulations")
	defer span.End()

	cutoff := s.now().Add(-s.config.GetQuoteValidity())
	ids, err := s.SimulationRepo.ExpireOlderThan(ctx, cutoff)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, customError.WrapDatabaseError(err)
	}

	if err := s.Cache.DeleteSchedule(ctx, ids...); err != nil {
		s.logger.Warn("failed to evict expired schedules", zap.Error(err), zap.Int("count", len(ids)))
	}

	metrics.ExpiredSimulations.Add(float64(len(ids)))
	span.SetAttributes(attribute.Int("simulations.expired", len(ids)))
	s.logger.Info("expired stale simulations", zap.Int("count", len(ids)), zap.Time("cutoff", cutoff))

	return len(ids), nil
}

func (s *SimulationService) loanParameters(request *domain.CreateSimulationRequest) (credit.LoanParameters, error) {
	if !request.EffectiveLoanAmount().IsPositive() {
		return credit.LoanParameters{}, customError.WrapInvalidParameters(
			"loan amount must be greater than zero after initial payment and bonus", nil)
	}

	startDate := utils.TruncateToDay(s.now())
	if request.StartDate != nil && !request.StartDate.IsZero() {
		startDate = *request.StartDate
	}

	currency := request.Currency
	if currency == "" {
		currency = s.config.Business.DefaultCurrency
	}

	return toLoanParameters(request, startDate, currency), nil
}

func (s *SimulationService) calculate(ctx context.Context, params credit.LoanParameters) (*credit.ScheduleResult, error) {
	_, span := tracing.Tracer().Start(ctx, "credit.Calculate")
	defer span.End()

	graceType := string(params.GracePeriodType)
	span.SetAttributes(
		attribute.Float64("loan.amount", params.LoanAmount),
		attribute.Int("loan.term_years", params.LoanTermYears),
		attribute.String("loan.grace_period_type", graceType),
		attribute.Int("loan.grace_period_months", params.GracePeriodMonths),
	)

	start := time.Now()
	result, err := s.calculator.Calculate(params)
	metrics.CalculationDuration.WithLabelValues(graceType).Observe(time.Since(start).Seconds())

	if err != nil {
		status := metrics.StatusError
		if errors.Is(err, customError.ErrInvalidParameters) {
			status = metrics.StatusInvalid
		}
		metrics.Calculations.WithLabelValues(graceType, status).Inc()
		if errors.Is(err, customError.ErrNonConvergence) {
			metrics.IRRNonConvergence.Inc()
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.Calculations.WithLabelValues(graceType, metrics.StatusSuccess).Inc()
	if !result.TIRConverged {
		metrics.IRRNonConvergence.Inc()
	}
	span.SetAttributes(
		attribute.Float64("loan.tcea", result.TCEA),
		attribute.Bool("loan.tir_converged", result.TIRConverged),
	)

	return result, nil
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/segyhp/credit-simulator/internal/credit"
	"github.com/segyhp/credit-simulator/internal/domain"
	customError "github.com/segyhp/credit-simulator/pkg/errors"
	"github.com/segyhp/credit-simulator/pkg/response"
)

// SimulationService is the behaviour the HTTP layer needs from the service
type SimulationService interface {
	Preview(ctx context.Context, request *domain.CreateSimulationRequest) (*credit.ScheduleResult, error)
	CreateSimulation(ctx context.Context, request *domain.CreateSimulationRequest) (*domain.Simulation, []*domain.PaymentScheduleEntry, error)
	GetSimulation(ctx context.Context, simulationID uuid.UUID) (*domain.Simulation, error)
	GetSchedule(ctx context.Context, simulationID uuid.UUID) ([]*domain.PaymentScheduleEntry, error)
	ListSimulations(ctx context.Context, userID string) ([]*domain.Simulation, error)
}

type SimulationHandler struct {
	service   SimulationService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewSimulationHandler(service SimulationService, logger *zap.Logger) *SimulationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulationHandler{
		service:   service,
		validator: NewValidator(),
		logger:    logger,
	}
}

// Preview calculates a schedule without storing it
func (h *SimulationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Preview(r.Context(), request)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateSimulation calculates and stores a simulation
func (h *SimulationHandler) CreateSimulation(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	simulation, schedule, err := h.service.CreateSimulation(r.Context(), request)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, domain.SimulationResponse{
		Simulation: simulation,
		Schedule:   schedule,
	})
}

// GetSimulation returns a stored simulation
func (h *SimulationHandler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	simulationID, ok := parseSimulationID(w, r)
	if !ok {
		return
	}

	simulation, err := h.service.GetSimulation(r.Context(), simulationID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, simulation)
}

// GetSchedule returns the payment schedule of a stored simulation
func (h *SimulationHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	simulationID, ok := parseSimulationID(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), simulationID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, domain.ScheduleResponse{
		SimulationID: simulationID,
		Schedule:     schedule,
	})
}

// ListSimulations returns the simulations of a user
func (h *SimulationHandler) ListSimulations(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	simulations, err := h.service.ListSimulations(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, domain.SimulationListResponse{
		UserID:      userID,
		Simulations: simulations,
	})
}

func (h *SimulationHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*domain.CreateSimulationRequest, bool) {
	var request domain.CreateSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return nil, false
	}

	if err := h.validator.Struct(&request); err != nil {
		response.WithCode(w, http.StatusBadRequest, customError.ErrCodeInvalidParameters,
			validationMessage(err), nil)
		return nil, false
	}

	return &request, true
}

func parseSimulationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	simulationID, err := uuid.Parse(mux.Vars(r)["simulationId"])
	if err != nil {
		response.BadRequest(w, "Invalid simulation ID", err)
		return uuid.Nil, false
	}
	return simulationID, true
}

func (h *SimulationHandler) writeError(w http.ResponseWriter, err error) {
	code := customError.CodeOf(err)

	var be *customError.BusinessError
	message := "Internal server error"
	if errors.As(err, &be) {
		message = be.Message
	}

	switch {
	case errors.Is(err, customError.ErrInvalidParameters):
		response.WithCode(w, http.StatusBadRequest, code, message, nil)
	case errors.Is(err, customError.ErrSimulationNotFound):
		response.WithCode(w, http.StatusNotFound, code, message, nil)
	case errors.Is(err, customError.ErrNumericalDegeneracy), errors.Is(err, customError.ErrNonConvergence):
		response.WithCode(w, http.StatusUnprocessableEntity, code, message, nil)
	default:
		h.logger.Error("request failed", zap.Error(err))
		response.WithCode(w, http.StatusInternalServerError, code, "Internal server error", nil)
	}
}

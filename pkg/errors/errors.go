package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidParameters   = errors.New("invalid loan parameters")
	ErrNumericalDegeneracy = errors.New("numerical degeneracy")
	ErrNonConvergence      = errors.New("root finder did not converge")
	ErrSimulationNotFound  = errors.New("simulation not found")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidParameters   = "INVALID_PARAMETERS"
	ErrCodeNumericalDegeneracy = "NUMERICAL_DEGENERACY"
	ErrCodeNonConvergence      = "NON_CONVERGENCE"
	ErrCodeSimulationNotFound  = "SIMULATION_NOT_FOUND"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
)

// WrapInvalidParameters reports a rejected loan parameter. The cause, when
// present, is kept alongside the sentinel so both match with errors.Is.
func WrapInvalidParameters(message string, cause error) *BusinessError {
	err := ErrInvalidParameters
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidParameters, cause)
	}
	return NewBusinessError(ErrCodeInvalidParameters, message, err)
}

func WrapNumericalDegeneracy(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeNumericalDegeneracy,
		message,
		ErrNumericalDegeneracy,
	)
}

func WrapNonConvergence(iterations int, estimate float64) *BusinessError {
	return NewBusinessError(
		ErrCodeNonConvergence,
		fmt.Sprintf("IRR did not converge after %d iterations (last estimate %g)", iterations, estimate),
		ErrNonConvergence,
	)
}

func WrapSimulationNotFound(simulationID string) *BusinessError {
	return NewBusinessError(
		ErrCodeSimulationNotFound,
		fmt.Sprintf("Simulation with ID %s not found", simulationID),
		ErrSimulationNotFound,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// CodeOf returns the business code carried by err, or an empty string.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

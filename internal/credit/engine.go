// Package credit implements the mortgage credit calculation engine: rate
// normalization, French amortization with grace periods, and the TEA, TCEA,
// VAN and TIR indicators.
package credit

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	customError "github.com/segyhp/credit-simulator/pkg/errors"
)

// Engine runs credit calculations. It holds no per-calculation state and is
// safe for concurrent use.
type Engine struct {
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
	solver   IRRSolver
	strict   bool

	// fixedGuess keeps solver.Guess as configured instead of seeding the
	// solve with the loan's own monthly rate
	fixedGuess bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the clock used when LoanParameters.StartDate is zero.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIRRSolver replaces the default Newton-Raphson settings, initial guess
// included.
func WithIRRSolver(s IRRSolver) Option {
	return func(e *Engine) {
		e.solver = s
		e.fixedGuess = true
	}
}

// WithIRRMaxIterations bounds the Newton-Raphson solve without fixing its
// initial guess.
func WithIRRMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.solver.MaxIterations = n
		}
	}
}

// WithStrictConvergence makes an unconverged IRR fail the calculation.
func WithStrictConvergence(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

func NewEngine(opts ...Option) *Engine {
	v := validator.New()
	v.RegisterStructValidation(loanParametersStructLevel, LoanParameters{})

	e := &Engine{
		validate: v,
		logger:   zap.NewNop(),
		now:      time.Now,
		solver:   DefaultIRRSolver(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculate validates params and produces the schedule and its indicators.
// Either the whole result is returned or an error, never a partial result.
func (e *Engine) Calculate(params LoanParameters) (*ScheduleResult, error) {
	p, err := e.normalize(params)
	if err != nil {
		return nil, err
	}

	if nominalWithoutCapitalization(p.InterestRateType, p.Capitalization) {
		e.logger.Warn("nominal rate without capitalization, treating it as effective annual",
			zap.Float64("annual_interest_rate", p.AnnualInterestRate),
			zap.String("op", "credit.Calculate"),
		)
	}

	monthlyRate := ResolveMonthlyRate(p.AnnualInterestRate, p.InterestRateType, p.Capitalization)

	schedule, err := GenerateSchedule(ScheduleInput{
		LoanAmount:        p.LoanAmount,
		MonthlyRate:       monthlyRate,
		TotalPeriods:      p.TotalPeriods(),
		GracePeriodType:   p.GracePeriodType,
		GracePeriodMonths: p.GracePeriodMonths,
		InsuranceRate:     p.InsuranceRate,
		StartDate:         p.StartDate,
	})
	if err != nil {
		return nil, err
	}

	solver := e.solver
	if !e.fixedGuess {
		solver.Guess = monthlyRate
	}

	ind, err := ComputeIndicators(p, schedule, solver, e.strict)
	if err != nil {
		return nil, err
	}

	if !ind.TIR.Converged {
		e.logger.Warn("IRR did not converge, returning best estimate",
			zap.Float64("tir", ind.TIR.Rate),
			zap.Int("iterations", ind.TIR.Iterations),
			zap.String("op", "credit.Calculate"),
		)
	}

	e.logger.Debug("credit calculated",
		zap.Float64("loan_amount", p.LoanAmount),
		zap.Int("periods", len(schedule.Periods)),
		zap.String("grace_period_type", string(p.GracePeriodType)),
		zap.Float64("fixed_installment", schedule.FixedInstallment),
		zap.Float64("tea", ind.TEA),
		zap.Float64("tcea", ind.TCEA),
		zap.String("op", "credit.Calculate"),
	)

	return &ScheduleResult{
		Periods:          schedule.Periods,
		FixedInstallment: schedule.FixedInstallment,
		MonthlyRate:      monthlyRate,
		TEA:              ind.TEA,
		TCEA:             ind.TCEA,
		VAN:              ind.VAN,
		TIR:              ind.TIR.Rate,
		TIRConverged:     ind.TIR.Converged,
		TIRIterations:    ind.TIR.Iterations,
		Currency:         p.Currency,
	}, nil
}

// Validate reports whether params would be accepted by Calculate.
func (e *Engine) Validate(params LoanParameters) error {
	if err := e.validate.Struct(params); err != nil {
		return customError.WrapInvalidParameters(describeValidation(err), err)
	}
	return nil
}

func (e *Engine) normalize(params LoanParameters) (LoanParameters, error) {
	if err := e.Validate(params); err != nil {
		return LoanParameters{}, err
	}

	p := params
	p.GracePeriodMonths = p.EffectiveGraceMonths()
	if p.StartDate.IsZero() {
		p.StartDate = e.now()
	}
	return p, nil
}

func loanParametersStructLevel(sl validator.StructLevel) {
	p := sl.Current().Interface().(LoanParameters)

	finite := []struct {
		field string
		value float64
	}{
		{"LoanAmount", p.LoanAmount},
		{"AnnualInterestRate", p.AnnualInterestRate},
		{"InsuranceRate", p.InsuranceRate},
	}
	for _, f := range finite {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			sl.ReportError(f.value, f.field, f.field, "finite", "")
		}
	}

	// grace months are ignored entirely without a grace period
	if p.GracePeriodType == GraceNone {
		return
	}
	if p.GracePeriodMonths < 0 {
		sl.ReportError(p.GracePeriodMonths, "GracePeriodMonths", "GracePeriodMonths", "gte", "0")
	}
	if p.LoanTermYears > 0 && p.GracePeriodMonths >= p.TotalPeriods() {
		sl.ReportError(p.GracePeriodMonths, "GracePeriodMonths", "GracePeriodMonths", "ltperiods", fmt.Sprint(p.TotalPeriods()))
	}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "ltperiods":
			msgs = append(msgs, fmt.Sprintf("%s must be less than the %s total periods", fe.Field(), fe.Param()))
		case "finite":
			msgs = append(msgs, fmt.Sprintf("%s must be a finite number", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value()))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

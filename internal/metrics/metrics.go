package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Calculations counts engine runs by grace type and outcome
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_calculations_total",
			Help: "Number of schedule calculations",
		},
		[]string{"grace_type", "status"},
	)

	// CalculationDuration observes engine run time in seconds
	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "credit_calculation_duration_seconds",
			Help:    "Duration of schedule calculations",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"grace_type"},
	)

	// IRRNonConvergence counts solves that ran out of iterations
	IRRNonConvergence = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_irr_non_convergence_total",
			Help: "IRR solves that exhausted the iteration budget",
		},
	)

	// ExpiredSimulations counts simulations moved to expired by the scheduler
	ExpiredSimulations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_simulations_expired_total",
			Help: "Simulations expired after the quote validity window",
		},
	)
)

// Status labels
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

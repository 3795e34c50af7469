package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"pointsdraw/internal/models"
)

var (
	ClaimsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pointsdraw",
		Name:      "claims_total",
		Help:      "Prize claims by result.",
	}, []string{"result"})

	RandomnessCallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pointsdraw",
		Name:      "randomness_callbacks_total",
		Help:      "Oracle callbacks by result.",
	}, []string{"result"})

	RandomnessRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pointsdraw",
		Name:      "randomness_requests_total",
		Help:      "Randomness requests sent to the oracle.",
	})

	TransfersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pointsdraw",
		Name:      "prize_transfers_total",
		Help:      "Prize transfer dispatch attempts by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(ClaimsTotal, RandomnessCallbacksTotal, RandomnessRequestsTotal, TransfersTotal)
}

// Result turns an operation error into a low-cardinality label.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, models.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, models.ErrUnauthorizedOracleCallback):
		return "unauthorized_oracle"
	case errors.Is(err, models.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, models.ErrNoRandomnessAvailable):
		return "no_randomness"
	case errors.Is(err, models.ErrEmptyPrizePool):
		return "empty_pool"
	case errors.Is(err, models.ErrInvalidRandomness):
		return "invalid_randomness"
	case errors.Is(err, models.ErrJobIDAlreadyPresent):
		return "duplicate_job"
	}
	return "error"
}

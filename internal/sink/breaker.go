// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package sink

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/envlog/internal/logging"
	"github.com/tomtom215/envlog/internal/metrics"
)

// BreakerSettings tunes the circuit breaker guarding a remote sink.
type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit. Default: 5
	ConsecutiveFailures uint32

	// OpenTimeout is how long the circuit stays open before a probe. Default: 30s
	OpenTimeout time.Duration

	// Interval resets failure counts while closed. Default: 1m
	Interval time.Duration
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if s.Interval <= 0 {
		s.Interval = time.Minute
	}
	return s
}

// newBreaker builds a circuit breaker that reports its state to metrics
// and the diagnostics logger.
func newBreaker(name string, st BreakerSettings) *gobreaker.CircuitBreaker[struct{}] {
	st = st.withDefaults()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    st.Interval,
		Timeout:     st.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= st.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()

			diag := logging.Diag()
			diag.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
		},
	})
}

// isRejected reports whether err came from an open or saturated breaker.
func isRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// stateToFloat converts circuit breaker state to a metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

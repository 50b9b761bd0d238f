// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/logging"
)

// NewCircuitBreaker creates the publish breaker. It trips once at least
// BreakerMinRequests calls were made in the current interval and the failure
// ratio reaches BreakerFailureRatio.
func NewCircuitBreaker(name string, cfg *config.EventsConfig) *gobreaker.CircuitBreaker[interface{}] {
	minRequests := cfg.BreakerMinRequests
	ratio := cfg.BreakerFailureRatio

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Event publish circuit breaker state changed")
		},
	}

	return gobreaker.NewCircuitBreaker[interface{}](settings)
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RevocationStoreOperations counts revocation store calls by operation and outcome.
	RevocationStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_auth_revocation_operations_total",
			Help: "Revocation store operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// RejectedTokens counts bearer tokens rejected by the authentication middleware.
	RejectedTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_auth_rejected_tokens_total",
			Help: "Tokens rejected by the authentication middleware by reason",
		},
		[]string{"reason"},
	)
)

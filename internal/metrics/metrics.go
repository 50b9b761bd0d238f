// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package metrics holds the Prometheus collectors for Foodgram.
//
// Collectors are registered on the default registry through promauto and
// exposed by the /metrics route. Record* helpers keep label sets consistent
// across callers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Short link Metrics
	ShortLinksIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shortlink_issued_total",
			Help: "Total number of short tokens accepted by storage",
		},
	)

	ShortLinkCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shortlink_collisions_total",
			Help: "Total number of generated short tokens that were already taken",
		},
	)

	ShortLinkExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shortlink_exhausted_total",
			Help: "Total number of issue calls that ran out of attempts",
		},
	)

	RedirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_redirects_total",
			Help: "Total number of short-link redirects",
		},
		[]string{"kind", "outcome"}, // kind: recipe, url; outcome: found, not_found, invalid
	)

	// Shopping list Metrics
	ShoppingListDownloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Total number of shopping list downloads",
		},
	)

	ShoppingListLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_lines",
			Help:    "Number of consolidated ingredient lines per shopping list",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	// Event bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"topic", "outcome"}, // outcome: ok, error, breaker_open
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_events_handled_total",
			Help: "Total number of domain events consumed by the router",
		},
		[]string{"topic", "outcome"},
	)

	EventsBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_events_breaker_state",
			Help: "Publish circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Live feed Metrics
	LiveFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_live_feed_clients",
			Help: "Connected live event feed clients",
		},
	)

	LiveFeedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_live_feed_messages_total",
			Help: "Live feed messages by outcome",
		},
		[]string{"outcome"}, // sent, dropped
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Import Metrics
	ImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_import_rows_total",
			Help: "Ingredient CSV rows by outcome",
		},
		[]string{"outcome"}, // imported, duplicate, skipped
	)

	// Auth Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_auth_attempts_total",
			Help: "Token login attempts by outcome",
		},
		[]string{"outcome"},
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_authz_decisions_total",
			Help: "Authorization decisions by object and result",
		},
		[]string{"object", "result"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRedirect records a short-link redirect outcome.
func RecordRedirect(kind, outcome string) {
	RedirectsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordShoppingListDownload records one download with its line count
// (header excluded).
func RecordShoppingListDownload(lines int) {
	ShoppingListDownloads.Inc()
	ShoppingListLines.Observe(float64(lines))
}

// RecordEventPublished records a publish attempt.
func RecordEventPublished(topic, outcome string) {
	EventsPublished.WithLabelValues(topic, outcome).Inc()
}

// RecordEventHandled records a consumed event.
func RecordEventHandled(topic string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	EventsHandled.WithLabelValues(topic, outcome).Inc()
}

// RecordLiveFeedMessage records a broadcast to one client.
func RecordLiveFeedMessage(delivered bool) {
	if delivered {
		LiveFeedMessages.WithLabelValues("sent").Inc()
		return
	}
	LiveFeedMessages.WithLabelValues("dropped").Inc()
}

// RecordCacheLookup records a hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// RecordImport adds the outcome counts of one import run.
func RecordImport(imported, duplicates, skipped int) {
	ImportRows.WithLabelValues("imported").Add(float64(imported))
	ImportRows.WithLabelValues("duplicate").Add(float64(duplicates))
	ImportRows.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordAuthAttempt records a login outcome (success, invalid_credentials, ...).
func RecordAuthAttempt(outcome string) {
	AuthAttempts.WithLabelValues(outcome).Inc()
}

// RecordAuthzDecision records an enforcer decision.
func RecordAuthzDecision(object string, allowed bool) {
	result := "deny"
	if allowed {
		result = "allow"
	}
	AuthzDecisions.WithLabelValues(object, result).Inc()
}

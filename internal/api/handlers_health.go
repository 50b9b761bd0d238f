// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	SchemaVersion     int     `json:"schema_version,omitempty"`
	Uptime            float64 `json:"uptime"`
}

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns database connectivity, schema version and uptime
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db.Ping(r.Context()) == nil

	status := HealthStatus{
		Status:            "healthy",
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if !dbConnected {
		status.Status = "degraded"
	} else if v, err := h.db.GetCurrentSchemaVersion(r.Context()); err == nil {
		status.SchemaVersion = v
	}

	WriteSuccess(w, r, status)
}

// HealthLive handles liveness check requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness check requests (Kubernetes-style)
// Returns 200 OK only when DuckDB answers a ping.
//
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		NewResponseWriter(w, r).ServiceUnavailable("database is not reachable")
		return
	}
	WriteSuccess(w, r, map[string]interface{}{
		"ready": true,
	})
}

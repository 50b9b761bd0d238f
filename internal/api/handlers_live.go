// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/logging"
	ws "github.com/tomtom215/foodgram/internal/websocket"
)

// liveUpgrader builds the upgrader for the live feed.
func (h *Handler) liveUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkLiveOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkLiveOrigin accepts requests without an Origin header: the feed
// requires an Authorization header, which browsers cannot attach to a
// WebSocket handshake. Browser origins must be in CORS_ORIGINS.
func (h *Handler) checkLiveOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("Live feed connection rejected from unauthorized origin")
	return false
}

// LiveEvents upgrades to a WebSocket that streams domain events.
//
// @Summary Stream domain events
// @Description Administrators receive every recipe, catalog and link event as {"type":"event","data":{...}} frames.
// @Tags Events
// @Security TokenAuth
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/events/ws/ [get]
func (h *Handler) LiveEvents(w http.ResponseWriter, r *http.Request) {
	if h.liveFeed == nil {
		NewResponseWriter(w, r).ServiceUnavailable("Live event feed is disabled")
		return
	}

	upgrader := h.liveUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Live feed upgrade failed")
		return
	}

	ws.NewClient(h.liveFeed, conn, auth.ViewerID(r.Context())).Start()
}

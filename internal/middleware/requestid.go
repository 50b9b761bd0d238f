// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package middleware

import (
	"net/http"

	"github.com/tomtom215/foodgram/internal/logging"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds IDs supplied by upstream proxies.
const maxRequestIDLength = 128

// RequestID middleware generates a unique ID for each request and adds it
// to the response header and the request context. Upstream IDs from
// X-Request-ID are kept when they are reasonably sized.
//
// The ID is stored with logging.ContextWithRequestID together with a fresh
// correlation ID, so logging.Ctx(r.Context()) picks up both.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		next(w, r.WithContext(ctx))
	}
}

// Handler adapts a HandlerFunc middleware for chi's Use.
//
//	r.Use(middleware.Handler(middleware.RequestID))
func Handler(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/shortlink"
	"github.com/tomtom215/foodgram/internal/validation"
)

// Request errors raised before any storage access.
var (
	// ErrInvalidID indicates a path id that is not a positive integer.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidBody indicates a body that is not valid JSON for the endpoint.
	ErrInvalidBody = errors.New("invalid request body")
)

// writeError maps err to a status and envelope. notFound is the message for
// database.ErrNotFound.
func writeError(rw *ResponseWriter, err error, notFound string) {
	var verr *validation.RequestValidationError
	var conflict *database.ConflictError

	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
	case errors.As(err, &conflict):
		rw.ValidationError(conflict.Error(), map[string][]string{
			conflict.Field: {conflict.Error()},
		})
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound(notFound)
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidBody):
		rw.BadRequest(err.Error())
	case errors.Is(err, database.ErrAlreadyExists),
		errors.Is(err, database.ErrSelfSubscription),
		errors.Is(err, database.ErrInvalidReference),
		errors.Is(err, database.ErrConstraint):
		rw.BadRequest(err.Error())
	case errors.Is(err, shortlink.ErrCollision):
		rw.Conflict("Short token collision, retry the request")
	case errors.Is(err, database.ErrWriteConflict):
		rw.Conflict("Recipe was changed by another request, retry the request")
	case errors.Is(err, shortlink.ErrExhausted):
		logging.CtxWarn(rw.r.Context()).Err(err).Msg("Short token space exhausted")
		rw.ServiceUnavailable("Could not allocate a short token")
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrExpiredCredentials),
		errors.Is(err, auth.ErrTokenRevoked):
		rw.Unauthorized("Invalid token.")
	case errors.Is(err, auth.ErrNoCredentials):
		rw.Unauthorized("Authentication credentials were not provided.")
	case errors.Is(err, context.DeadlineExceeded):
		logging.CtxWarn(rw.r.Context()).Err(err).Msg("Request timed out")
		rw.ServiceUnavailable("Request timed out")
	default:
		rw.DatabaseError(err)
	}
}

// writeCatalogError reports name conflicts on tags and ingredients as 409.
func writeCatalogError(rw *ResponseWriter, err error, notFound string) {
	var conflict *database.ConflictError
	if errors.As(err, &conflict) {
		rw.ErrorWithDetails(http.StatusConflict, ErrCodeConflict, conflict.Error(), map[string][]string{
			conflict.Field: {conflict.Error()},
		})
		return
	}
	writeError(rw, err, notFound)
}

// authErrorHandler renders auth.Middleware failures in the envelope.
func authErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	writeError(NewResponseWriter(w, r), err, "")
}

// denyHandler renders authz.Middleware denials in the envelope.
func denyHandler(w http.ResponseWriter, r *http.Request, status int) {
	rw := NewResponseWriter(w, r)
	if status == http.StatusUnauthorized {
		rw.Unauthorized("Authentication credentials were not provided.")
		return
	}
	rw.Forbidden("You do not have permission to perform this action.")
}

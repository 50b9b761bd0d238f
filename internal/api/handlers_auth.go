// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

const loginFailedMessage = "Unable to log in with provided credentials."

// Login exchanges email and password for a token.
//
// @Summary Obtain an auth token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} APIResponse{data=TokenResponse}
// @Failure 400 {object} APIResponse
// @Router /api/auth/token/login/ [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		metrics.RecordAuthAttempt("invalid_request")
		writeError(rw, err, "")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.db.GetUserByEmail(r.Context(), email)
	if errors.Is(err, database.ErrNotFound) {
		metrics.RecordAuthAttempt("unknown_user")
		h.authLog.LogLoginFailure(email, r.RemoteAddr, r.UserAgent(), "unknown user")
		rw.BadRequest(loginFailedMessage)
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.RecordAuthAttempt("invalid_credentials")
		h.authLog.LogLoginFailure(email, r.RemoteAddr, r.UserAgent(), "wrong password")
		rw.BadRequest(loginFailedMessage)
		return
	}

	token, _, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		logging.CtxErr(r.Context(), err).Int64("user_id", user.ID).Msg("Failed to issue token")
		rw.InternalError("Failed to issue token")
		return
	}

	metrics.RecordAuthAttempt("success")
	h.authLog.LogLoginSuccess(user.ID, user.Email, r.RemoteAddr, r.UserAgent())
	rw.Success(TokenResponse{AuthToken: token})
}

// Logout revokes the token the request was authenticated with.
//
// @Summary Revoke the current token
// @Tags Auth
// @Security TokenAuth
// @Success 204
// @Failure 401 {object} APIResponse
// @Router /api/auth/token/logout/ [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	subject := auth.SubjectFromContext(r.Context())

	if h.revocations != nil && subject.TokenID != "" {
		if err := h.revocations.Revoke(r.Context(), subject.TokenID, subject.ExpiresAt); err != nil {
			logging.CtxErr(r.Context(), err).Msg("Failed to revoke token")
			rw.InternalError("Failed to revoke token")
			return
		}
	}

	h.authLog.LogLogout(subject.ID, subject.TokenID, r.RemoteAddr)
	rw.NoContent()
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package auth provides token authentication for the Foodgram API.

# Overview

Clients log in with email and password and receive a signed JWT (HS256).
The token is sent back on every request in the Authorization header, using
either the "Token <jwt>" scheme the original web client speaks or the
standard "Bearer <jwt>" scheme.

Logging out revokes the token's jti. Revocations live in a RevocationStore,
either in memory or in BadgerDB so that they survive restarts. Each entry
expires together with the token it revokes.

# Components

  - HashPassword / CheckPassword: bcrypt password hashing
  - JWTManager: token issuing and validation
  - RevocationStore: revoked token IDs (memory or badger)
  - Middleware: Authenticate attaches an AuthSubject, RequireAuth rejects
    anonymous requests
  - SecurityHeaders: standard response hardening headers

# Usage

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	revoked, err := auth.NewRevocationStore(cfg.Security.RevocationStore, cfg.Security.RevocationPath)
	mw := auth.NewMiddleware(jwtManager, revoked)

	r.Use(mw.Authenticate)
	r.With(mw.RequireAuth).Get("/api/users/me/", h.Me)

	subject := auth.SubjectFromContext(r.Context())
*/
package auth

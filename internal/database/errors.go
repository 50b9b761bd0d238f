// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"errors"
	"io"
	"strings"

	"github.com/tomtom215/foodgram/internal/logging"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists reports a unique violation on a user-visible pair
	// (email, username, favorite, cart entry, subscription, tag name).
	ErrAlreadyExists = errors.New("already exists")

	// ErrSelfSubscription is returned when a user subscribes to themselves.
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")

	// ErrInvalidReference reports unknown or repeated tag/ingredient ids
	// in a recipe write.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrWriteConflict reports that a concurrent transaction changed the
	// same recipe; the caller may retry.
	ErrWriteConflict = errors.New("concurrent write conflict")
)

// isUniqueViolation reports DuckDB unique and primary key violations.
// DuckDB: `Constraint Error: Duplicate key "email: a@b.c" violates unique constraint`.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "primary key constraint") ||
		strings.Contains(errMsg, "duplicate key")
}

// isUniqueViolationOn reports a unique violation naming column.
func isUniqueViolationOn(err error, column string) bool {
	return isUniqueViolation(err) && strings.Contains(err.Error(), column+":")
}

// isCheckViolation reports a failed CHECK constraint.
func isCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "check constraint")
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "Conflict on tuple deletion")
}

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}

// ConflictError names the field whose uniqueness a write violated. It
// matches ErrAlreadyExists with errors.Is.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " already exists"
}

// Is reports ErrAlreadyExists equivalence.
func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ErrConstraint reports a CHECK constraint failure (amount or cooking time
// out of range) that request validation did not catch.
var ErrConstraint = errors.New("value violates a constraint")

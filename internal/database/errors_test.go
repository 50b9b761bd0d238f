// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tomtom215/foodgram/internal/shortlink"
)

func TestConstraintClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		unique   bool
		check    bool
		conflict bool
	}{
		{"nil", nil, false, false, false},
		{"duplicate key", errors.New(`Constraint Error: Duplicate key "short_token: AAAAAA" violates unique constraint`), true, false, false},
		{"primary key", errors.New(`Constraint Error: Duplicate key "id: 1" violates primary key constraint`), true, false, false},
		{"check", errors.New(`Constraint Error: CHECK constraint failed on table subscriptions with expression CHECK((subscriber_id != author_id))`), false, true, false},
		{"txn conflict", errors.New(`TransactionContext Error: Failed to commit: Transaction conflict: cannot update a table that has been altered`), false, false, true},
		{"update conflict", errors.New(`TransactionContext Error: Conflict on update!`), false, false, true},
		{"other", errors.New("connection refused"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isUniqueViolation(tt.err); got != tt.unique {
				t.Errorf("isUniqueViolation = %v, want %v", got, tt.unique)
			}
			if got := isCheckViolation(tt.err); got != tt.check {
				t.Errorf("isCheckViolation = %v, want %v", got, tt.check)
			}
			if got := isTransactionConflict(tt.err); got != tt.conflict {
				t.Errorf("isTransactionConflict = %v, want %v", got, tt.conflict)
			}
		})
	}
}

func TestIsUniqueViolationOn(t *testing.T) {
	t.Parallel()

	err := errors.New(`Constraint Error: Duplicate key "full_url: https://example.com/token: x" violates unique constraint`)
	if !isUniqueViolationOn(err, "full_url") {
		t.Error("expected full_url match")
	}
	if isUniqueViolationOn(errors.New(`Duplicate key "slug: x" violates unique constraint`), "email") {
		t.Error("unexpected email match")
	}
}

func TestConflictError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("signup: %w", &ConflictError{Field: "email"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Error("ConflictError should match ErrAlreadyExists")
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Field != "email" {
		t.Errorf("errors.As failed: %v", err)
	}
	if conflict.Error() != "email already exists" {
		t.Errorf("Error() = %q", conflict.Error())
	}
}

func TestClassifyRecipeWrite(t *testing.T) {
	t.Parallel()

	unique := errors.New(`Constraint Error: Duplicate key "short_token: AAAAAA" violates unique constraint`)
	conflict := errors.New(`TransactionContext Error: Conflict on update!`)
	check := errors.New(`Constraint Error: CHECK constraint failed on table recipes`)

	tests := []struct {
		name  string
		err   error
		retry error
		want  error
	}{
		{"insert token clash", unique, shortlink.ErrCollision, shortlink.ErrCollision},
		{"insert commit conflict", conflict, shortlink.ErrCollision, shortlink.ErrCollision},
		{"update commit conflict", conflict, ErrWriteConflict, ErrWriteConflict},
		{"update unique race", unique, ErrWriteConflict, ErrWriteConflict},
		{"check", check, ErrWriteConflict, ErrConstraint},
		{"not found passes through", ErrNotFound, ErrWriteConflict, ErrNotFound},
		{"bad reference passes through", ErrInvalidReference, shortlink.ErrCollision, ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := classifyRecipeWrite(tt.err, tt.retry)
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyRecipeWrite() = %v, want %v", got, tt.want)
			}
		})
	}

	if errors.Is(classifyRecipeWrite(conflict, ErrWriteConflict), shortlink.ErrCollision) {
		t.Error("update conflict reported as a token collision")
	}
	if classifyRecipeWrite(nil, ErrWriteConflict) != nil {
		t.Error("nil error should stay nil")
	}
}

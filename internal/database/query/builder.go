// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package query provides SQL query building utilities for the database package.
package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
//	wb := query.NewWhereBuilder()
//	wb.AddEqual("r.author_id", authorID)
//	wb.AddIn("t.slug", []string{"breakfast", "lunch"})
//	whereClause, args := wb.Build()
//	// r.author_id = ? AND t.slug IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
// This is useful for custom conditions not covered by helper methods.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEqual adds "column = ?". Column names are trusted input; values are bound.
func (wb *WhereBuilder) AddEqual(column string, value interface{}) *WhereBuilder {
	return wb.AddClause(column+" = ?", value)
}

// AddIn adds "column IN (?, ?, ...)". An empty slice is skipped.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, Placeholders(len(values))))
	for _, v := range values {
		wb.args = append(wb.args, v)
	}
	return wb
}

// AddExists adds "EXISTS (subquery)" with the subquery's arguments.
func (wb *WhereBuilder) AddExists(subquery string, args ...interface{}) *WhereBuilder {
	return wb.AddClause("EXISTS ("+subquery+")", args...)
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// Placeholders returns n comma-separated "?" markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Int64Args converts ids to driver arguments for IN lists.
func Int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

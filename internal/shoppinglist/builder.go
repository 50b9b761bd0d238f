// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package shoppinglist renders a user's shopping cart into the plain-text
// list served by /api/recipes/download_shopping_cart/.
//
// Aggregation happens in the store (SUM ... GROUP BY name, unit). Lines
// merges and sorts again so any Source produces the same output.
package shoppinglist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/tomtom215/foodgram/internal/models"
)

const (
	// DefaultHeader is the first line of every list.
	DefaultHeader = "Список покупок:"

	// EnglishHeader is the alternative for shopping_list.header.
	EnglishHeader = "Shopping list:"

	// Filename is the attachment name sent with the download.
	Filename = "shopping-list.txt"

	// ContentType of the download.
	ContentType = "text/plain; charset=utf-8"
)

// Item is one consolidated (ingredient, unit) line.
type Item = models.ShoppingListItem

// Source returns the summed cart contents for a user.
type Source interface {
	ShoppingListItems(ctx context.Context, userID int64) ([]models.ShoppingListItem, error)
}

// Builder turns cart contents into text lines.
type Builder struct {
	source Source
	header string
}

// NewBuilder returns a Builder; an empty header falls back to DefaultHeader.
func NewBuilder(source Source, header string) *Builder {
	if header == "" {
		header = DefaultHeader
	}
	return &Builder{source: source, header: header}
}

// Header returns the header line in use.
func (b *Builder) Header() string {
	return b.header
}

// Build returns the header followed by one line per ingredient and unit.
// An empty cart yields the header only.
func (b *Builder) Build(ctx context.Context, userID int64) ([]string, error) {
	items, err := b.source.ShoppingListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list items: %w", err)
	}
	return Lines(b.header, items), nil
}

// Lines renders "{name}: {amount}, {unit}" under header. Items with the
// same name and unit are summed; output is ordered by name then unit.
func Lines(header string, items []models.ShoppingListItem) []string {
	type key struct{ name, unit string }

	totals := make(map[key]int64, len(items))
	keys := make([]key, 0, len(items))
	for _, it := range items {
		k := key{it.Name, it.MeasurementUnit}
		if _, ok := totals[k]; !ok {
			keys = append(keys, k)
		}
		totals[k] += it.Amount
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].unit < keys[j].unit
	})

	lines := make([]string, 0, len(keys)+1)
	lines = append(lines, header)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %d, %s", k.name, totals[k], k.unit))
	}
	return lines
}

// Write writes lines as UTF-8 text, each terminated by a newline.
func Write(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("failed to write shopping list: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write shopping list: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write shopping list: %w", err)
	}
	return nil
}

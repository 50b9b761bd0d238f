// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package models

// Tag groups recipes (breakfast, lunch, ...). Name and slug are both unique.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Ingredient is unique by (name, measurement unit).
type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// String renders the ingredient the way the admin listing shows it.
func (i Ingredient) String() string {
	return i.Name + ", " + i.MeasurementUnit
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package output prints styled status lines for foodgramctl.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Success prints a success line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

// Warning prints a warning line.
func Warning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warningStyle.Render("⚠"), fmt.Sprintf(format, args...))
}

// Info prints an informational line.
func Info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", infoStyle.Render("ℹ"), fmt.Sprintf(format, args...))
}

// Field prints an indented "key: value" pair.
func Field(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "  %s %v\n", keyStyle.Render(key+":"), value)
}

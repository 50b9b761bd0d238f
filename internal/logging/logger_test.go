// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{
		Level:     "debug",
		Format:    "json",
		Timestamp: true,
		Output:    &buf,
	})
	defer Init(DefaultConfig())

	Info().Int64("recipe_id", 7).Msg("recipe created")

	output := buf.String()
	if !strings.Contains(output, "recipe created") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected output to contain level, got: %s", output)
	}
	if !strings.Contains(output, `"recipe_id":7`) {
		t.Errorf("expected output to contain recipe_id, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"off", zerolog.Disabled},
		{"  DEBUG ", zerolog.DebugLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	for _, lvl := range []string{"trace", "debug", "info", "warn", "error", "Disabled"} {
		if !ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = false, want true", lvl)
		}
	}
	for _, lvl := range []string{"", "verbose", "critical"} {
		if ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = true, want false", lvl)
		}
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer Init(DefaultConfig())

	tests := []struct {
		name  string
		emit  func()
		level string
	}{
		{"debug", func() { Debug().Msg("d") }, "debug"},
		{"info", func() { Info().Msg("i") }, "info"},
		{"warn", func() { Warn().Msg("w") }, "warn"},
		{"error", func() { Error().Msg("e") }, "error"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.emit()
		if !strings.Contains(buf.String(), `"level":"`+tt.level+`"`) {
			t.Errorf("%s: expected level in output: %s", tt.name, buf.String())
		}
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())

	SetLevelString("error")
	Info().Msg("suppressed")
	if buf.Len() != 0 {
		t.Errorf("expected info to be suppressed at error level, got: %s", buf.String())
	}

	SetLevelString("info")
	Info().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected info output after lowering level, got: %s", buf.String())
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("console message")

	output := buf.String()
	if !strings.Contains(output, "console message") {
		t.Errorf("expected console output to contain message, got: %s", output)
	}
	if strings.Contains(output, `"message"`) {
		t.Errorf("expected non-JSON console output, got: %s", output)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())

	l := WithComponent("shortlink")
	l.Info().Msg("component test")

	if !strings.Contains(buf.String(), `"component":"shortlink"`) {
		t.Errorf("expected component field in output: %s", buf.String())
	}
}

func TestErr(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())

	Err(errors.New("duckdb unavailable")).Msg("query failed")

	output := buf.String()
	if !strings.Contains(output, "duckdb unavailable") {
		t.Errorf("expected error text in output: %s", output)
	}
	if !strings.Contains(output, `"level":"error"`) {
		t.Errorf("expected error level in output: %s", output)
	}
}

func TestNewTestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewTestLogger(&buf)
	l.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"time"`) {
		t.Errorf("expected timestamp in test logger output: %s", buf.String())
	}
}

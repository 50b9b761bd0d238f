// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateCorrelationID(t *testing.T) {
	t.Parallel()

	id := GenerateCorrelationID()
	if len(id) != 8 {
		t.Errorf("expected correlation ID length 8, got %d (%q)", len(id), id)
	}
	if other := GenerateCorrelationID(); other == id {
		t.Errorf("expected unique correlation IDs, got %q twice", id)
	}
}

func TestGenerateRequestID(t *testing.T) {
	t.Parallel()

	id := GenerateRequestID()
	if len(id) != 36 {
		t.Errorf("expected UUID length 36, got %d (%q)", len(id), id)
	}
}

func TestContextValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if CorrelationIDFromContext(ctx) != "" || RequestIDFromContext(ctx) != "" || UserIDFromContext(ctx) != 0 {
		t.Fatal("expected empty values from bare context")
	}

	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithUserID(ctx, 42)

	if got := CorrelationIDFromContext(ctx); got != "corr-1" {
		t.Errorf("CorrelationIDFromContext = %q, want corr-1", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", got)
	}
	if got := UserIDFromContext(ctx); got != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", got)
	}
}

func TestContextWithNewCorrelationID(t *testing.T) {
	t.Parallel()

	ctx := ContextWithNewCorrelationID(context.Background())
	if CorrelationIDFromContext(ctx) == "" {
		t.Error("expected generated correlation ID")
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())

	ctx := ContextWithCorrelationID(context.Background(), "corr-123")
	ctx = ContextWithRequestID(ctx, "req-456")
	ctx = ContextWithUserID(ctx, 9)

	Ctx(ctx).Info().Msg("context test")

	output := buf.String()
	for _, want := range []string{"corr-123", "req-456", `"user_id":9`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestCtx_OmitsMissingFields(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())

	Ctx(context.Background()).Info().Msg("bare")

	output := buf.String()
	if strings.Contains(output, "request_id") || strings.Contains(output, "user_id") {
		t.Errorf("expected no request fields in output: %s", output)
	}
}

func TestCtxShortcuts(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())

	ctx := ContextWithRequestID(context.Background(), "short-123")

	tests := []struct {
		name  string
		emit  func()
		level string
	}{
		{"CtxInfo", func() { CtxInfo(ctx).Msg("info") }, "info"},
		{"CtxWarn", func() { CtxWarn(ctx).Msg("warn") }, "warn"},
		{"CtxErr", func() { CtxErr(ctx, errors.New("boom")).Msg("error") }, "error"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.emit()
		output := buf.String()
		if !strings.Contains(output, `"level":"`+tt.level+`"`) {
			t.Errorf("%s: expected level %q in output: %s", tt.name, tt.level, output)
		}
		if !strings.Contains(output, "short-123") {
			t.Errorf("%s: expected request_id in output: %s", tt.name, output)
		}
	}
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/tomtom215/foodgram/internal/logging"
)

// LoggerAdapter implements watermill.LoggerAdapter on zerolog.
type LoggerAdapter struct {
	logger zerolog.Logger
}

// NewLoggerAdapter returns an adapter over the global logger with
// component=events.
func NewLoggerAdapter() *LoggerAdapter {
	return &LoggerAdapter{logger: logging.WithComponent("events")}
}

// NewLoggerAdapterWithLogger wraps a specific zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLoggerAdapterWithLogger(logger zerolog.Logger) *LoggerAdapter {
	return &LoggerAdapter{logger: logger}
}

// Error implements watermill.LoggerAdapter.
func (a *LoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	withFields(a.logger.Error().Err(err), fields).Msg(msg)
}

// Info implements watermill.LoggerAdapter.
func (a *LoggerAdapter) Info(msg string, fields watermill.LogFields) {
	withFields(a.logger.Info(), fields).Msg(msg)
}

// Debug implements watermill.LoggerAdapter.
func (a *LoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	withFields(a.logger.Debug(), fields).Msg(msg)
}

// Trace implements watermill.LoggerAdapter.
func (a *LoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	withFields(a.logger.Trace(), fields).Msg(msg)
}

// With implements watermill.LoggerAdapter.
func (a *LoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &LoggerAdapter{logger: a.logger.With().Fields(map[string]interface{}(fields)).Logger()}
}

func withFields(ev *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	if len(fields) == 0 {
		return ev
	}
	return ev.Fields(map[string]interface{}(fields))
}

var _ watermill.LoggerAdapter = (*LoggerAdapter)(nil)

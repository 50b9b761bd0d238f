// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/foodgram/internal/logging"
)

// EventRouter is satisfied by *events.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// EventRouterService runs the domain event router under supervision.
//
// A watermill router cannot be run again once it has stopped, so newRouter
// is called on every start. Handlers are registered inside newRouter.
type EventRouterService struct {
	newRouter    func() (EventRouter, error)
	closeTimeout time.Duration
	name         string
}

// NewEventRouterService creates the service. closeTimeout bounds how long
// Serve waits for Run to return after Close.
func NewEventRouterService(newRouter func() (EventRouter, error), closeTimeout time.Duration) *EventRouterService {
	if closeTimeout <= 0 {
		closeTimeout = 30 * time.Second
	}
	return &EventRouterService{
		newRouter:    newRouter,
		closeTimeout: closeTimeout,
		name:         "event-router",
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.newRouter()
	if err != nil {
		return fmt.Errorf("event router setup failed: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- router.Run(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("event router stopped: %w", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.New("event router stopped unexpectedly")

	case <-ctx.Done():
		if err := router.Close(); err != nil {
			logging.Warn().Err(err).Msg("Event router close failed")
		}
		select {
		case <-errCh:
		case <-time.After(s.closeTimeout):
			logging.Warn().Dur("timeout", s.closeTimeout).Msg("Event router did not stop in time")
		}
		return ctx.Err()
	}
}

func (s *EventRouterService) String() string {
	return s.name
}

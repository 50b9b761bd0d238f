// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*EventRouterService)(nil)

// fakeRouter runs until Close is called.
type fakeRouter struct {
	runErr  error
	started chan struct{}
	closed  chan struct{}
	closes atomic.Int32
}

func newFakeRouter(runErr error) *fakeRouter {
	return &fakeRouter{runErr: runErr, started: make(chan struct{}), closed: make(chan struct{})}
}

func (f *fakeRouter) Run(context.Context) error {
	close(f.started)
	if f.runErr != nil {
		return f.runErr
	}
	<-f.closed
	return nil
}

func (f *fakeRouter) Close() error {
	if f.closes.Add(1) == 1 {
		close(f.closed)
	}
	return nil
}

func TestEventRouterService_Serve(t *testing.T) {
	t.Run("stops on cancel", func(t *testing.T) {
		router := newFakeRouter(nil)
		svc := NewEventRouterService(func() (EventRouter, error) { return router, nil }, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		<-router.started
		cancel()
		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() error = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
		if router.closes.Load() != 1 {
			t.Errorf("Close called %d times, want 1", router.closes.Load())
		}
	})

	t.Run("setup failure", func(t *testing.T) {
		setupErr := errors.New("no subscriber")
		svc := NewEventRouterService(func() (EventRouter, error) { return nil, setupErr }, time.Second)
		if err := svc.Serve(context.Background()); !errors.Is(err, setupErr) {
			t.Errorf("Serve() error = %v, want %v", err, setupErr)
		}
	})

	t.Run("run failure", func(t *testing.T) {
		runErr := errors.New("subscribe failed")
		svc := NewEventRouterService(func() (EventRouter, error) { return newFakeRouter(runErr), nil }, time.Second)
		if err := svc.Serve(context.Background()); !errors.Is(err, runErr) {
			t.Errorf("Serve() error = %v, want %v", err, runErr)
		}
	})
}

func TestEventRouterService_RestartBuildsNewRouter(t *testing.T) {
	var built atomic.Int32
	svc := NewEventRouterService(func() (EventRouter, error) {
		if built.Add(1) == 1 {
			return newFakeRouter(errors.New("first run fails")), nil
		}
		return newFakeRouter(nil), nil
	}, time.Second)

	sup := suture.New("test", suture.Spec{FailureBackoff: 10 * time.Millisecond, Timeout: time.Second})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for built.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if built.Load() < 2 {
		t.Errorf("router built %d times, want at least 2", built.Load())
	}

	cancel()
	<-errCh
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// waitFor polls cond for up to a second.
func waitFor(cond func() bool) bool {
	for i := 0; i < 50; i++ {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("Root() = nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want %+v", tree.config, DefaultTreeConfig())
	}

	custom, _ := NewSupervisorTree(quietLogger(), TreeConfig{FailureBackoff: time.Second})
	if custom.config.FailureBackoff != time.Second || custom.config.FailureThreshold != 5 {
		t.Errorf("config = %+v", custom.config)
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	data := newMockService("revocation-gc", 0)
	messaging := newMockService("event-router", 0)
	api := newMockService("http-server", 0)
	tree.AddDataService(data)
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	if !waitFor(func() bool { return data.starts() > 0 && messaging.starts() > 0 && api.starts() > 0 }) {
		t.Errorf("starts: data=%d messaging=%d api=%d", data.starts(), messaging.starts(), api.starts())
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) != 0 {
		t.Errorf("unstopped services: %v", unstopped)
	}
}

func TestSupervisorTree_FailureIsolation(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  500 * time.Millisecond,
	})

	flaky := newMockService("event-router", 3)
	stable := newMockService("http-server", 0)
	tree.AddMessagingService(flaky)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	if !waitFor(func() bool { return flaky.starts() >= 4 }) {
		t.Errorf("flaky service started %d times, want at least 4", flaky.starts())
	}
	if stable.starts() != 1 {
		t.Errorf("stable service started %d times, want 1", stable.starts())
	}

	cancel()
	<-errCh
}

func TestSupervisorTree_RemoveMessagingService(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	svc := newMockService("event-router", 0)
	token := tree.AddMessagingService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	if !waitFor(func() bool { return svc.starts() > 0 }) {
		t.Fatal("service was not started")
	}
	if err := tree.RemoveMessagingService(token); err != nil {
		t.Errorf("RemoveMessagingService() error = %v", err)
	}

	cancel()
	<-errCh
}

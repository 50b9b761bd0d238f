// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

//go:build integration

package testinfra

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// pollInterval is how often Eventually re-checks its condition.
const pollInterval = 200 * time.Millisecond

// SkipIfNoDocker skips t when no Docker daemon answers.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable runs `docker info` with a short timeout.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// TestLogger routes testcontainers output (image pulls, wait strategy
// progress) to t.Log, so it only shows for failing or -v runs.
type TestLogger struct {
	t testing.TB
}

// NewTestLogger returns a testcontainers logger for t.
func NewTestLogger(t testing.TB) *TestLogger {
	return &TestLogger{t: t}
}

// Printf implements the testcontainers logger interface.
func (l *TestLogger) Printf(format string, v ...interface{}) {
	l.t.Helper()
	l.t.Logf(format, v...)
}

// Eventually polls cond until it holds, ctx ends or timeout passes.
func Eventually(ctx context.Context, cond func() bool, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if cond() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return context.DeadlineExceeded
		case <-ticker.C:
		}
	}
}

// CleanupContainer terminates c, logging instead of failing on error.
func CleanupContainer(t *testing.T, ctx context.Context, c testcontainers.Container) {
	t.Helper()
	if c == nil {
		return
	}
	if err := c.Terminate(ctx); err != nil {
		t.Logf("Warning: failed to terminate container: %v", err)
	}
}

// ContainerState is the part of the Docker state tests assert on.
type ContainerState struct {
	ID      string
	Status  string
	Host    string
	Ports   map[string]string // container port -> host port
	Started string
}

// InspectContainer returns the state and published ports of c.
func InspectContainer(ctx context.Context, c testcontainers.Container) (*ContainerState, error) {
	state, err := c.State(ctx)
	if err != nil {
		return nil, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return nil, err
	}
	ports, err := c.Ports(ctx)
	if err != nil {
		return nil, err
	}

	published := make(map[string]string, len(ports))
	for port, bindings := range ports {
		if len(bindings) > 0 {
			published[string(port)] = bindings[0].HostPort
		}
	}

	id := c.GetContainerID()
	if len(id) > 12 {
		id = id[:12]
	}
	return &ContainerState{
		ID:      id,
		Status:  state.Status,
		Host:    host,
		Ports:   published,
		Started: state.StartedAt,
	}, nil
}

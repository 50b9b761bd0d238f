// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultNATSImage is the official NATS server image.
	DefaultNATSImage = "nats:2.10-alpine"

	// DefaultNATSPort is the client port.
	DefaultNATSPort = "4222"

	// natsMonitorPort serves /healthz.
	natsMonitorPort = "8222"
)

// NATSContainer is a running NATS server for integration tests.
type NATSContainer struct {
	testcontainers.Container
	URL string
}

// NATSOption configures the NATS container.
type NATSOption func(*natsConfig)

type natsConfig struct {
	image        string
	jetStream    bool
	startTimeout time.Duration
	logger       *TestLogger
}

// WithNATSImage sets a custom NATS image.
func WithNATSImage(image string) NATSOption {
	return func(c *natsConfig) {
		c.image = image
	}
}

// WithJetStream starts the server with JetStream enabled.
func WithJetStream() NATSOption {
	return func(c *natsConfig) {
		c.jetStream = true
	}
}

// WithNATSStartTimeout sets how long to wait for the server to become healthy.
func WithNATSStartTimeout(timeout time.Duration) NATSOption {
	return func(c *natsConfig) {
		c.startTimeout = timeout
	}
}

// WithNATSLogger sends container lifecycle output to t.
func WithNATSLogger(t testing.TB) NATSOption {
	return func(c *natsConfig) {
		c.logger = NewTestLogger(t)
	}
}

// NewNATSContainer starts a NATS server and returns its client URL.
//
// Example:
//
//	nats, err := testinfra.NewNATSContainer(ctx, testinfra.WithNATSLogger(t))
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, nats)
//
//	bus, err := events.NewBus(&config.EventsConfig{NATSURL: nats.URL}, nil)
func NewNATSContainer(ctx context.Context, opts ...NATSOption) (*NATSContainer, error) {
	cfg := &natsConfig{
		image:        DefaultNATSImage,
		startTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cmd := []string{"--http_port", natsMonitorPort}
	if cfg.jetStream {
		cmd = append(cmd, "--jetstream")
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultNATSPort + "/tcp", natsMonitorPort + "/tcp"},
		Cmd:          cmd,
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultNATSPort+"/tcp"),
			wait.ForHTTP("/healthz").WithPort(natsMonitorPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	genericReq := testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	}
	if cfg.logger != nil {
		genericReq.Logger = cfg.logger
	}
	container, err := testcontainers.GenericContainer(ctx, genericReq)
	if err != nil {
		return nil, fmt.Errorf("create nats container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, DefaultNATSPort+"/tcp")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &NATSContainer{
		Container: container,
		URL:       fmt.Sprintf("nats://%s:%s", host, port.Port()),
	}, nil
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"

	"github.com/tomtom215/foodgram/internal/logging"
)

// embeddedReadyTimeout bounds how long NewEmbeddedServer waits for the
// listener to accept connections.
const embeddedReadyTimeout = 10 * time.Second

// EmbeddedServer is an in-process core NATS server for single-node
// deployments that still want other processes to see domain events.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer starts a NATS server on host:port. Port -1 picks a
// random free port.
func NewEmbeddedServer(host string, port int) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName: "foodgram-events",
		Host:       host,
		Port:       port,
		// The process owns signal handling.
		NoSigs:     true,
		MaxPayload: 1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	ns.SetLogger(newServerLogger(logging.WithComponent("nats-server")), false, false)

	go ns.Start()

	if !ns.ReadyForConnections(embeddedReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within %s", embeddedReadyTimeout)
	}

	return &EmbeddedServer{
		server:    ns,
		clientURL: ns.ClientURL(),
	}, nil
}

// ClientURL returns the URL clients connect to.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// IsRunning reports whether the server still accepts connections.
func (s *EmbeddedServer) IsRunning() bool {
	return s.server.Running()
}

// NumClients returns the number of connected clients.
func (s *EmbeddedServer) NumClients() int {
	return s.server.NumClients()
}

// Shutdown stops the server, waiting until it has exited or ctx is done.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	s.server.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.WaitForShutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// serverLogger implements server.Logger on zerolog.
type serverLogger struct {
	logger zerolog.Logger
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newServerLogger(logger zerolog.Logger) *serverLogger {
	return &serverLogger{logger: logger}
}

func (l *serverLogger) Noticef(format string, v ...any) { l.logger.Info().Msgf(format, v...) }
func (l *serverLogger) Warnf(format string, v ...any)   { l.logger.Warn().Msgf(format, v...) }
func (l *serverLogger) Errorf(format string, v ...any)  { l.logger.Error().Msgf(format, v...) }
func (l *serverLogger) Debugf(format string, v ...any)  { l.logger.Debug().Msgf(format, v...) }
func (l *serverLogger) Tracef(format string, v ...any)  { l.logger.Trace().Msgf(format, v...) }

// Fatalf logs at error level; the server shuts itself down after fatal
// conditions, so the process is not terminated here.
func (l *serverLogger) Fatalf(format string, v ...any) { l.logger.Error().Msgf(format, v...) }

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package testinfra provides container helpers for integration tests.
//
// Containers are managed with testcontainers-go. Every file here carries the
// integration build tag, so a plain go test never needs Docker:
//
//	go test -tags integration ./...
//
// # NATS Container
//
// NewNATSContainer starts a real NATS server so the event bus can be tested
// over the wire instead of the in-process gochannel transport:
//
//	func TestBusOverNATS(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    nats, err := testinfra.NewNATSContainer(ctx, testinfra.WithNATSLogger(t))
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, nats)
//
//	    bus, err := events.NewBus(&config.EventsConfig{NATSURL: nats.URL}, nil)
//	    // ...
//	}
//
// WithNATSLogger routes image pulls and wait-strategy output to t.Log.
// Eventually polls a condition, for consumers that receive asynchronously.
//
// # CI Considerations
//
// Tests are skipped when Docker is unavailable. The first run pulls the
// image; later runs use the local cache.
package testinfra

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

//go:build integration

package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/testinfra"
)

func natsBusConfig(url string) *config.EventsConfig {
	cfg := testBreakerConfig()
	cfg.NATSURL = url
	cfg.QueueGroup = "foodgram-it"
	cfg.CloseTimeout = 5 * time.Second
	return cfg
}

func startNATS(t *testing.T) string {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)
	nats, err := testinfra.NewNATSContainer(ctx, testinfra.WithNATSLogger(t))
	if err != nil {
		t.Fatalf("NewNATSContainer() error = %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, context.Background(), nats) })
	return nats.URL
}

func TestBus_NATSFanOut(t *testing.T) {
	url := startNATS(t)

	bus, err := NewBus(natsBusConfig(url), nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	defer bus.Close()
	if bus.Transport() != TransportNATS {
		t.Fatalf("Transport() = %q", bus.Transport())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	msgs, err := bus.Subscriber().Subscribe(ctx, TopicTagChanged)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	sent := TagChanged(7, 42)
	if err := bus.Publisher().Publish(ctx, sent); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-msgs:
		msg.Ack()
		got, err := Unmarshal(msg.Payload)
		if err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if got.ID != sent.ID || got.TagID != 42 || got.ActorID != 7 {
			t.Errorf("received %+v, want %+v", got, sent)
		}
		if msg.Metadata.Get("topic") != TopicTagChanged {
			t.Errorf("topic metadata = %q", msg.Metadata.Get("topic"))
		}
	case <-ctx.Done():
		t.Fatal("no message received over NATS")
	}
}

// Two replicas share the queue group, so each event reaches exactly one.
func TestBus_NATSQueueGroup(t *testing.T) {
	url := startNATS(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var received atomic.Int32
	consume := func(msgs <-chan *message.Message) {
		for msg := range msgs {
			received.Add(1)
			msg.Ack()
		}
	}

	var publisher *Bus
	for i := 0; i < 2; i++ {
		bus, err := NewBus(natsBusConfig(url), nil)
		if err != nil {
			t.Fatalf("NewBus() error = %v", err)
		}
		defer bus.Close()
		msgs, err := bus.QueueSubscriber().Subscribe(ctx, TopicLinkCreated)
		if err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
		go consume(msgs)
		publisher = bus
	}

	const n = 10
	for i := 0; i < n; i++ {
		if err := publisher.Publisher().Publish(ctx, LinkCreated(1, "AbC123")); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	err := testinfra.Eventually(ctx, func() bool { return received.Load() >= n }, 10*time.Second)
	if err != nil {
		t.Fatalf("received %d of %d events", received.Load(), n)
	}
	time.Sleep(500 * time.Millisecond)
	if got := received.Load(); got != n {
		t.Errorf("received %d events, want exactly %d", got, n)
	}
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/foodgram/internal/config"
)

// Transport names reported by Bus.Transport.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// Bus owns the transport publisher, its subscribers and the wrapped Publisher.
//
// Subscriber delivers every event to every replica, which cache
// invalidation needs. QueueSubscriber load-balances events across the
// replicas sharing events.queue_group.
type Bus struct {
	transport       string
	raw             message.Publisher
	subscriber      message.Subscriber
	queueSubscriber message.Subscriber
	closers         []io.Closer
	publisher       *Publisher
	logger          watermill.LoggerAdapter
}

// NewBus builds the transport selected by cfg.NATSURL.
func NewBus(cfg *config.EventsConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = NewLoggerAdapter()
	}

	b := &Bus{logger: logger}
	if cfg.NATSURL == "" {
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger)
		b.transport = TransportGoChannel
		b.raw = ch
		b.subscriber = ownedSubscriber{ch}
		b.queueSubscriber = ownedSubscriber{ch}
	} else {
		pub, err := newNATSPublisher(cfg, logger)
		if err != nil {
			return nil, err
		}
		b.raw = pub
		b.transport = TransportNATS

		sub, err := newNATSSubscriber(cfg, logger, "")
		if err != nil {
			pub.Close() //nolint:errcheck
			return nil, err
		}
		queueSub, err := newNATSSubscriber(cfg, logger, cfg.QueueGroup)
		if err != nil {
			pub.Close() //nolint:errcheck
			sub.Close() //nolint:errcheck
			return nil, err
		}
		b.subscriber = ownedSubscriber{sub}
		b.queueSubscriber = ownedSubscriber{queueSub}
		b.closers = []io.Closer{sub, queueSub}
	}

	b.publisher = NewPublisher(b.raw, NewCircuitBreaker("events-"+b.transport, cfg))
	return b, nil
}

// natsOptions returns the connection options shared by publisher and subscriber.
func natsOptions(cfg *config.EventsConfig, logger watermill.LoggerAdapter, role string) []natsgo.Option {
	reconnectWait := cfg.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}

	return []natsgo.Option{
		natsgo.Name("foodgram-" + role),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(reconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, watermill.LogFields{"role": role})
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"role": role,
				"url":  nc.ConnectedUrl(),
			})
		}),
		natsgo.ErrorHandler(func(_ *natsgo.Conn, sub *natsgo.Subscription, err error) {
			fields := watermill.LogFields{"role": role}
			if sub != nil {
				fields["subject"] = sub.Subject
			}
			logger.Error("NATS error", err, fields)
		}),
	}
}

func newNATSPublisher(cfg *config.EventsConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOptions(cfg, logger, "publisher"),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}
	return pub, nil
}

// newNATSSubscriber creates a core NATS subscriber. An empty queueGroup
// subscribes every replica to every message.
func newNATSSubscriber(cfg *config.EventsConfig, logger watermill.LoggerAdapter, queueGroup string) (message.Subscriber, error) {
	subscribers := cfg.SubscribersCount
	if subscribers <= 0 {
		subscribers = 1
	}
	closeTimeout := cfg.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = 30 * time.Second
	}

	role := "subscriber"
	if queueGroup != "" {
		role = "queue-subscriber"
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.NATSURL,
		QueueGroupPrefix: queueGroup,
		SubscribersCount: subscribers,
		CloseTimeout:     closeTimeout,
		NatsOptions:      natsOptions(cfg, logger, role),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats %s: %w", role, err)
	}
	return sub, nil
}

// Transport returns TransportGoChannel or TransportNATS.
func (b *Bus) Transport() string {
	return b.transport
}

// Publisher returns the breaker-wrapped publisher.
func (b *Bus) Publisher() *Publisher {
	return b.publisher
}

// Subscriber returns the fan-out subscriber.
func (b *Bus) Subscriber() message.Subscriber {
	return b.subscriber
}

// QueueSubscriber returns the load-balanced subscriber.
func (b *Bus) QueueSubscriber() message.Subscriber {
	return b.queueSubscriber
}

// Logger returns the watermill logger the bus was built with.
func (b *Bus) Logger() watermill.LoggerAdapter {
	return b.logger
}

// Close shuts down the publisher and subscribers. For gochannel both are
// the same value and are closed once.
func (b *Bus) Close() error {
	b.publisher.Close()

	err := b.raw.Close()
	for _, c := range b.closers {
		err = errors.Join(err, c.Close())
	}
	return err
}

// ownedSubscriber keeps a watermill router from closing a subscriber the
// Bus owns, so a restarted router can subscribe again.
type ownedSubscriber struct {
	message.Subscriber
}

func (ownedSubscriber) Close() error { return nil }

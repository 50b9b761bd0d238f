// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// Emitter is what write paths depend on. Emit never fails the caller.
type Emitter interface {
	Emit(ctx context.Context, e Event)
}

// Publisher wraps a Watermill publisher with a circuit breaker.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	mu             sync.RWMutex
	closed         bool
}

// NewPublisher wraps pub. cb may be nil.
func NewPublisher(pub message.Publisher, cb *gobreaker.CircuitBreaker[interface{}]) *Publisher {
	return &Publisher{
		publisher:      pub,
		circuitBreaker: cb,
	}
}

// Publish serializes e and sends it on its topic.
func (p *Publisher) Publish(ctx context.Context, e Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	data, err := Marshal(&e)
	if err != nil {
		return err
	}

	msg := message.NewMessage(e.ID, data)
	msg.Metadata.Set("topic", e.Topic)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set("request_id", id)
	}
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}

	if p.circuitBreaker != nil {
		_, err = p.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(e.Topic, msg)
		})
	} else {
		err = p.publisher.Publish(e.Topic, msg)
	}

	switch {
	case err == nil:
		metrics.RecordEventPublished(e.Topic, "success")
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordEventPublished(e.Topic, "rejected")
	default:
		metrics.RecordEventPublished(e.Topic, "error")
	}
	return fmt.Errorf("publish %s: %w", e.Topic, err)
}

// Emit publishes e and logs instead of returning an error.
func (p *Publisher) Emit(ctx context.Context, e Event) {
	if err := p.Publish(ctx, e); err != nil {
		logging.CtxWarn(ctx).Err(err).Str("topic", e.Topic).Str("event_id", e.ID).Msg("Failed to publish event")
	}
}

// State returns the breaker state, or "disabled".
func (p *Publisher) State() string {
	if p.circuitBreaker == nil {
		return "disabled"
	}
	return p.circuitBreaker.State().String()
}

// Close marks the publisher closed. The underlying publisher is owned by the Bus.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// NopEmitter discards events. Used by tools that write without a bus.
type NopEmitter struct{}

// Emit implements Emitter.
func (NopEmitter) Emit(context.Context, Event) {}

var (
	_ Emitter = (*Publisher)(nil)
	_ Emitter = NopEmitter{}
)

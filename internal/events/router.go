// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/foodgram/internal/cache"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/metrics"
)

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// RouterConfigFrom derives a RouterConfig from the events section.
func RouterConfigFrom(cfg *config.EventsConfig) RouterConfig {
	rc := DefaultRouterConfig()
	if cfg != nil && cfg.CloseTimeout > 0 {
		rc.CloseTimeout = cfg.CloseTimeout
	}
	return rc
}

// Router wraps the Watermill Router with recovery and retry middleware.
type Router struct {
	router   *message.Router
	config   RouterConfig
	logger   watermill.LoggerAdapter
	running  atomic.Bool
	handlers map[string]*message.Handler
}

// NewRouter creates a Router. Handlers must be added before Run.
func NewRouter(cfg *RouterConfig, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = NewLoggerAdapter()
	}
	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Outer to inner: recover panics, then retry with backoff.
	wmRouter.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	return &Router{
		router:   wmRouter,
		config:   *cfg,
		logger:   logger,
		handlers: make(map[string]*message.Handler),
	}, nil
}

// EventHandler processes one decoded event.
type EventHandler func(ctx context.Context, e *Event) error

// AddEventHandler subscribes fn to topic. Undecodable messages are logged
// and acked so they do not block the subscription.
func (r *Router) AddEventHandler(name, topic string, sub message.Subscriber, fn EventHandler) *message.Handler {
	h := r.router.AddConsumerHandler(name, topic, sub, func(msg *message.Message) error {
		e, err := Unmarshal(msg.Payload)
		if err != nil {
			r.logger.Error("Dropping undecodable event", err, watermill.LogFields{
				"handler":    name,
				"message_id": msg.UUID,
			})
			metrics.RecordEventHandled(topic, err)
			return nil
		}

		err = fn(msg.Context(), e)
		metrics.RecordEventHandled(topic, err)
		return err
	})
	r.handlers[name] = h
	return h
}

// AddEventHandlers subscribes fn to every topic. Handler names are
// prefix + "_" + topic.
func (r *Router) AddEventHandlers(prefix string, sub message.Subscriber, fn EventHandler) {
	for _, topic := range AllTopics {
		r.AddEventHandler(prefix+"_"+topic, topic, sub, fn)
	}
}

// AddCacheInvalidation registers, for every topic, a handler that keeps
// reads consistent with the database.
func (r *Router) AddCacheInvalidation(sub message.Subscriber, reads *cache.Reads) {
	r.AddEventHandlers("invalidate", sub, CacheInvalidator(reads))
}

// AddActivityLog registers a handler that logs every event once per
// queue group.
func (r *Router) AddActivityLog(sub message.Subscriber) {
	r.AddEventHandlers("activity", sub, r.logActivity)
}

func (r *Router) logActivity(_ context.Context, e *Event) error {
	fields := watermill.LogFields{
		"event_id": e.ID,
		"topic":    e.Topic,
		"actor_id": e.ActorID,
	}
	if e.RecipeID != 0 {
		fields["recipe_id"] = e.RecipeID
	}
	if e.LinkToken != "" {
		fields["link_token"] = e.LinkToken
	}
	r.logger.Info("Domain event", fields)
	return nil
}

// CacheInvalidator returns the handler that drops cached data an event
// makes stale. Recipe updates keep their short token, so only deletes
// invalidate token resolutions.
func CacheInvalidator(reads *cache.Reads) EventHandler {
	return func(_ context.Context, e *Event) error {
		switch e.Topic {
		case TopicRecipeDeleted:
			if e.ShortToken != "" {
				reads.InvalidateToken(e.ShortToken)
			}
		case TopicTagChanged:
			reads.InvalidateTags()
		}
		return nil
	}
}

// Run starts the router and blocks until ctx is canceled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.router.Run(ctx)
}

// Running returns a channel that closes when the router is running.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close gracefully stops the router.
func (r *Router) Close() error {
	return r.router.Close()
}

// IsRunning returns whether the router is currently processing messages.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}

// Handlers returns the number of registered handlers.
func (r *Router) Handlers() int {
	return len(r.handlers)
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package events carries Foodgram domain events over Watermill.

Writes that change public data (recipes, tags, ingredients, short links)
emit an Event after the database transaction commits. Consumers run inside
a Watermill Router; the built-in consumers keep internal/cache consistent by
dropping cached tag lists and recipe short-token resolutions, write an
activity log, and feed the admin live feed.

Subscriber fans out to every replica; QueueSubscriber shares one queue group
so each event is handled once per deployment.

# Transports

  - gochannel (default): in-process, used when events.nats_url is empty
  - NATS core: watermill-nats with JetStream disabled and nats.go
    reconnect handling, for deployments running several API replicas
  - embedded NATS (events.embedded): an in-process nats-server the bus
    connects to, so other processes can subscribe without a separate broker

# Resilience

Publishes go through a gobreaker circuit breaker. A failing broker never
fails the HTTP request that caused the event: Emit logs the error, records
foodgram_events_published_total{outcome="error"} and returns.

# Usage

	bus, err := events.NewBus(&cfg.Events, events.NewLoggerAdapter())
	routerCfg := events.RouterConfigFrom(&cfg.Events)
	router, err := events.NewRouter(&routerCfg, bus.Logger())
	router.AddCacheInvalidation(bus.Subscriber(), reads)
	router.AddActivityLog(bus.QueueSubscriber())

	bus.Publisher().Emit(ctx, events.RecipeDeleted(userID, recipeID, token))
*/
package events

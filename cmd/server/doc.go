// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package main is the Foodgram HTTP server.

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB schema and migrations, token generators from the
    shortlink section
 4. Bootstrap administrator (ADMIN_EMAIL / ADMIN_PASSWORD)
 5. Auth: JWT manager, revocation store (memory or badger), casbin enforcer
 6. Events: gochannel or NATS bus with a circuit-breaking publisher; with
    EVENTS_EMBEDDED=true an in-process NATS server is started first and
    stopped after the bus closes
 7. Supervisor tree:

	RootSupervisor ("foodgram")
	├── data-layer: orphan-sweep, revocation-gc (badger store only)
	├── messaging-layer: event-router, live-feed-hub (EVENTS_LIVE_FEED)
	└── api-layer: http-server

SIGINT and SIGTERM cancel the root context; the HTTP server drains for up
to ten seconds, the event router closes its subscriptions and the live
feed hub disconnects its clients.

Example:

	export JWT_SECRET=$(openssl rand -base64 48)
	export ADMIN_EMAIL=admin@example.com ADMIN_PASSWORD=change-me-now
	export DUCKDB_PATH=./data/foodgram.duckdb REVOCATION_PATH=./data/revocations
	./foodgram-server
*/
package main

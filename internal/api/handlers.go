// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"errors"
	"time"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/cache"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/shoppinglist"
	ws "github.com/tomtom215/foodgram/internal/websocket"
)

// Dependencies collects what the handlers need. DB, Config, JWT and
// Enforcer are required; the rest fall back to working defaults.
type Dependencies struct {
	DB          *database.DB
	Config      *config.Config
	JWT         *auth.JWTManager
	Revocations auth.RevocationStore
	Enforcer    *authz.Enforcer
	Reads       *cache.Reads
	Events      events.Emitter
	// LiveFeed enables /api/events/ws/ when set.
	LiveFeed *ws.Hub
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files by resource:
//   - handlers_health.go: liveness and readiness checks
//   - handlers_auth.go: token login and logout
//   - handlers_users.go: signup, profiles, avatar, password, subscriptions
//   - handlers_catalog.go: tags and ingredients
//   - handlers_recipes.go: recipes, favorites, cart, shopping list
//   - handlers_links.go: generic short links and both redirects
//   - handlers_live.go: the administrators' live event feed
type Handler struct {
	db          *database.DB
	config      *config.Config
	jwtManager  *auth.JWTManager
	revocations auth.RevocationStore
	enforcer    *authz.Enforcer
	reads       *cache.Reads
	events      events.Emitter
	shopping    *shoppinglist.Builder
	authLog     *logging.AuthLogger
	liveFeed    *ws.Hub
	startTime   time.Time
}

// NewHandler validates deps and builds a Handler.
func NewHandler(deps *Dependencies) (*Handler, error) {
	if deps == nil || deps.DB == nil || deps.Config == nil || deps.JWT == nil || deps.Enforcer == nil {
		return nil, errors.New("api: DB, Config, JWT and Enforcer are required")
	}

	reads := deps.Reads
	if reads == nil {
		reads = cache.NewReads(deps.Config.Cache.TTL)
	}
	var emitter events.Emitter = events.NopEmitter{}
	if deps.Events != nil {
		emitter = deps.Events
	}

	return &Handler{
		db:          deps.DB,
		config:      deps.Config,
		jwtManager:  deps.JWT,
		revocations: deps.Revocations,
		enforcer:    deps.Enforcer,
		reads:       reads,
		events:      emitter,
		shopping:    shoppinglist.NewBuilder(deps.DB, deps.Config.ShoppingList.Header),
		authLog:     logging.NewAuthLogger(),
		liveFeed:    deps.LiveFeed,
		startTime:   time.Now(),
	}, nil
}

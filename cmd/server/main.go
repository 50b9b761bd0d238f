// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/tomtom215/foodgram/docs" // swagger document
	"github.com/tomtom215/foodgram/internal/api"
	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/cache"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/supervisor"
	"github.com/tomtom215/foodgram/internal/supervisor/services"
	ws "github.com/tomtom215/foodgram/internal/websocket"
)

const (
	revocationGCInterval = 10 * time.Minute
	revocationGCDiscard  = 0.5
	orphanSweepInterval  = 15 * time.Minute
	httpShutdownTimeout  = 10 * time.Second
)

//nolint:gocyclo // sequential setup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Str("revocation_store", cfg.Security.RevocationStore).
		Str("events", eventTransport(&cfg.Events)).
		Bool("live_feed", cfg.Events.LiveFeed).
		Msg("Starting Foodgram")

	tokenOpts, err := database.TokenOptions(&cfg.ShortLink)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid short link configuration")
	}
	db, err := database.New(&cfg.Database, tokenOpts...)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bootstrapAdmin(ctx, db, &cfg.Security); err != nil {
		logging.Error().Err(err).Msg("Failed to create bootstrap administrator")
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	revocations, err := auth.NewRevocationStore(cfg.Security.RevocationStore, cfg.Security.RevocationPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open token revocation store")
	}
	defer func() {
		if err := revocations.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing revocation store")
		}
	}()
	if cfg.Security.RevocationStore == auth.RevocationStoreMemory && cfg.IsProduction() {
		logging.Warn().Msg("Token revocations are kept in memory; logged-out tokens become valid again after a restart")
	}

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization")
	}
	defer enforcer.Close()

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}

	reads := cache.NewReads(cfg.Cache.TTL)
	defer reads.Close()

	if cfg.Events.Embedded {
		nats, err := events.NewEmbeddedServer(cfg.Events.EmbeddedHost, cfg.Events.EmbeddedPort)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to start embedded NATS server")
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
			defer shutdownCancel()
			if err := nats.Shutdown(shutdownCtx); err != nil {
				logging.Error().Err(err).Msg("Error stopping embedded NATS server")
			}
		}()
		cfg.Events.NATSURL = nats.ClientURL()
		logging.Info().Str("url", nats.ClientURL()).Msg("Embedded NATS server started")
	}

	bus, err := events.NewBus(&cfg.Events, events.NewLoggerAdapter())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	var hub *ws.Hub
	if cfg.Events.LiveFeed {
		hub = ws.NewHub()
	}

	handler, err := api.NewHandler(&api.Dependencies{
		DB:          db,
		Config:      cfg,
		JWT:         jwtManager,
		Revocations: revocations,
		Enforcer:    enforcer,
		Reads:       reads,
		Events:      bus.Publisher(),
		LiveFeed:    hub,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler).SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  httpShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if gc := revocationGC(revocations); gc != nil {
		tree.AddDataService(gc)
		logging.Info().Dur("interval", revocationGCInterval).Msg("Revocation store GC added to supervisor tree")
	}
	tree.AddDataService(orphanSweep(db))

	routerCfg := events.RouterConfigFrom(&cfg.Events)
	tree.AddMessagingService(services.NewEventRouterService(
		eventRouterFactory(bus, reads, hub, &routerCfg), routerCfg.CloseTimeout))
	if hub != nil {
		tree.AddMessagingService(hub)
		logging.Info().Msg("Live event feed added to supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, httpShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}

func eventTransport(cfg *config.EventsConfig) string {
	switch {
	case cfg.Embedded:
		return events.TransportNATS + " (embedded)"
	case cfg.NATSURL == "":
		return events.TransportGoChannel
	}
	return events.TransportNATS
}

// bootstrapAdmin creates or promotes the configured administrator. It is
// a no-op when no admin credentials are configured.
func bootstrapAdmin(ctx context.Context, db *database.DB, cfg *config.SecurityConfig) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin, created, err := db.EnsureAdmin(ctx, cfg.AdminEmail, adminUsername(cfg.AdminEmail), hash)
	if err != nil {
		return err
	}
	logging.Info().
		Int64("user_id", admin.ID).
		Str("email", logging.SanitizeEmail(admin.Email)).
		Bool("created", created).
		Msg("Bootstrap administrator ready")
	return nil
}

// adminUsername derives a username from the local part of email, keeping
// only characters usernames allow.
func adminUsername(email string) string {
	local, _, _ := strings.Cut(strings.ToLower(email), "@")
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-', r == '+':
			return r
		}
		return -1
	}, local)
	if name == "" {
		return "admin"
	}
	return name
}

// revocationGC returns a periodic value log GC for badger-backed stores.
func revocationGC(store auth.RevocationStore) *services.PeriodicService {
	bs, ok := store.(*auth.BadgerRevocationStore)
	if !ok {
		return nil
	}
	return services.NewPeriodicService("revocation-gc", revocationGCInterval, func(context.Context) error {
		return bs.RunValueLogGC(revocationGCDiscard)
	})
}

// orphanSweep periodically removes favorite, cart, tag and subscription
// rows left behind by inserts that raced a recipe or user deletion.
func orphanSweep(db *database.DB) *services.PeriodicService {
	return services.NewPeriodicService("orphan-sweep", orphanSweepInterval, purgeOrphans(db))
}

func purgeOrphans(db *database.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := db.PurgeOrphans(ctx)
		return err
	}
}

// eventRouterFactory builds a router with cache invalidation and the live
// feed (when hub is set) on the fan-out subscriber, and the activity log on
// the queue subscriber.
func eventRouterFactory(bus *events.Bus, reads *cache.Reads, hub *ws.Hub, cfg *events.RouterConfig) func() (services.EventRouter, error) {
	return func() (services.EventRouter, error) {
		router, err := events.NewRouter(cfg, bus.Logger())
		if err != nil {
			return nil, err
		}
		router.AddCacheInvalidation(bus.Subscriber(), reads)
		router.AddActivityLog(bus.QueueSubscriber())
		if hub != nil {
			router.AddEventHandlers("live_feed", bus.Subscriber(), hub.EventHandler())
		}
		return router, nil
	}
}

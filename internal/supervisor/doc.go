// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package supervisor runs the server's long-lived services under suture v4.

The tree has three layers, each with its own failure counting:

	RootSupervisor ("foodgram")
	├── DataSupervisor ("data-layer")
	│   ├── PeriodicService "orphan-sweep"
	│   └── PeriodicService "revocation-gc" (badger revocation store only)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService (watermill router: cache invalidation, activity log)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A service that keeps failing is backed off by its own layer; the other
layers keep running. Supervisor events are logged through sutureslog over
the zerolog slog adapter.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewEventRouterService(router))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor

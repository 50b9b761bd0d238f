// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package services adapts server components to suture.Service.
//
//   - HTTPServerService: ListenAndServe with graceful Shutdown on cancel.
//   - EventRouterService: builds and runs a fresh watermill router per start.
//   - PeriodicService: runs a maintenance task on a ticker.
//
// Each wrapper returns ctx.Err() on a clean stop and a wrapped error when
// the component fails, so the supervisor can tell the two apart.
package services

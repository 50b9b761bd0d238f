// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package api provides the REST API: chi routing, handlers and the JSON
// response envelope.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter builds a Router for handler. Auth and authorization failures are
// rendered in the response envelope.
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler: handler,
		auth: auth.NewMiddleware(handler.jwtManager, handler.revocations,
			auth.WithErrorHandler(authErrorHandler)),
		authz:         authz.NewMiddleware(handler.enforcer, denyHandler),
		chiMiddleware: NewChiMiddlewareFromConfig(&handler.config.Security),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler
	mw := router.chiMiddleware

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.Handler(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // must be global to answer OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// ========================
	// Short-link Redirects
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitRedirect())
		r.Use(middleware.Handler(middleware.PrometheusMetrics))
		r.Get("/s/{token}", h.RecipeRedirect)
		r.Get("/l/{token}", h.LinkRedirect)
	})

	// ========================
	// Token Endpoints
	// ========================
	r.Route("/api/auth/token", func(r chi.Router) {
		r.Use(mw.RateLimitAuth())
		r.Use(APISecurityHeaders())
		r.Use(NoStore)
		r.Use(middleware.Handler(middleware.PrometheusMetrics))
		r.Use(router.auth.Authenticate)

		r.With(mw.RateLimitLogin()).Post("/login/", h.Login)
		r.With(router.auth.RequireAuth).Post("/logout/", h.Logout)
	})

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(mw.RateLimitWrite())
		r.Use(APISecurityHeaders())
		r.Use(middleware.Handler(middleware.PrometheusMetrics))
		r.Use(router.auth.Authenticate)

		router.registerUserRoutes(r)
		router.registerCatalogRoutes(r)
		router.registerRecipeRoutes(r)
		router.registerLinkRoutes(r)
	})

	// ========================
	// Live Event Feed
	// ========================
	// Outside /api: the metrics writer wrapper cannot hijack connections.
	r.Route("/api/events", func(r chi.Router) {
		r.Use(mw.RateLimitAuth())
		r.Use(router.auth.Authenticate)
		r.Use(router.auth.RequireAuth)
		r.With(router.authz.Authorize(authz.ObjectEvents, authz.ActionRead)).Get("/ws/", h.LiveEvents)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}

func (router *Router) registerUserRoutes(r chi.Router) {
	h := router.handler
	read := router.authz.Authorize(authz.ObjectUsers, authz.ActionRead)
	write := router.authz.Authorize(authz.ObjectUsers, authz.ActionWrite)

	r.Route("/users", func(r chi.Router) {
		r.With(read).Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)

		// Static segments are matched before {id}.
		r.Group(func(r chi.Router) {
			r.Use(write, NoStore)
			r.Get("/me/", h.Me)
			r.Put("/me/avatar/", h.SetAvatar)
			r.Delete("/me/avatar/", h.DeleteAvatar)
			r.Post("/set_password/", h.SetPassword)
			r.Get("/subscriptions/", h.Subscriptions)
			r.Post("/{id}/subscribe/", h.Subscribe)
			r.Delete("/{id}/subscribe/", h.Unsubscribe)
		})

		r.With(read).Get("/{id}/", h.GetUser)
	})
}

func (router *Router) registerCatalogRoutes(r chi.Router) {
	h := router.handler

	r.Route("/tags", func(r chi.Router) {
		r.With(router.authz.Authorize(authz.ObjectTags, authz.ActionRead)).Get("/", h.ListTags)
		r.With(router.authz.Authorize(authz.ObjectTags, authz.ActionRead)).Get("/{id}/", h.GetTag)

		r.Group(func(r chi.Router) {
			r.Use(router.authz.Authorize(authz.ObjectTags, authz.ActionWrite))
			r.Post("/", h.CreateTag)
			r.Patch("/{id}/", h.UpdateTag)
			r.Delete("/{id}/", h.DeleteTag)
		})
	})

	r.Route("/ingredients", func(r chi.Router) {
		r.With(router.authz.Authorize(authz.ObjectIngredients, authz.ActionRead)).Get("/", h.ListIngredients)
		r.With(router.authz.Authorize(authz.ObjectIngredients, authz.ActionRead)).Get("/{id}/", h.GetIngredient)

		r.Group(func(r chi.Router) {
			r.Use(router.authz.Authorize(authz.ObjectIngredients, authz.ActionWrite))
			r.Post("/", h.CreateIngredient)
			r.Patch("/{id}/", h.UpdateIngredient)
			r.Delete("/{id}/", h.DeleteIngredient)
		})
	})
}

func (router *Router) registerRecipeRoutes(r chi.Router) {
	h := router.handler
	read := router.authz.Authorize(authz.ObjectRecipes, authz.ActionRead)
	write := router.authz.Authorize(authz.ObjectRecipes, authz.ActionWrite)

	r.Route("/recipes", func(r chi.Router) {
		r.With(read).Get("/", h.ListRecipes)
		r.With(read).Get("/{id}/", h.GetRecipe)
		r.With(read).Get("/{id}/get-link/", h.GetRecipeLink)

		r.Group(func(r chi.Router) {
			r.Use(write)
			r.With(NoStore).Get("/download_shopping_cart/", h.DownloadShoppingCart)
			r.Post("/", h.CreateRecipe)
			// Ownership is checked per recipe in the handler.
			r.Patch("/{id}/", h.UpdateRecipe)
			r.Delete("/{id}/", h.DeleteRecipe)
			r.Post("/{id}/favorite/", h.AddFavorite)
			r.Delete("/{id}/favorite/", h.RemoveFavorite)
			r.Post("/{id}/shopping_cart/", h.AddToCart)
			r.Delete("/{id}/shopping_cart/", h.RemoveFromCart)
		})
	})
}

func (router *Router) registerLinkRoutes(r chi.Router) {
	h := router.handler

	r.Route("/links", func(r chi.Router) {
		r.With(router.authz.Authorize(authz.ObjectLinks, authz.ActionWrite)).Post("/", h.CreateLink)
		r.With(router.authz.Authorize(authz.ObjectLinks, authz.ActionRead), NoStore).Get("/", h.ListLinks)
		r.With(router.authz.Authorize(authz.ObjectLinks, authz.ActionModerate)).Delete("/{token}/", h.DeactivateLink)
	})
}

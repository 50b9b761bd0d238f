// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// @title Foodgram API
// @version 1.0
// @description Recipe sharing backend: recipes, favorites, shopping carts,
// @description subscriptions, recipe short links and a generic URL shortener.
// @description
// @description ## Authentication
// @description
// @description Obtain a token with `POST /api/auth/token/login/` and send it as
// @description `Authorization: Token <auth_token>`. Logout revokes the token.
// @description
// @description ## Responses
// @description
// @description JSON responses use the envelope
// @description `{success, data, error{code,message,details,request_id}, meta}`.
// @description Paginated lists take `?page=&limit=` and return `meta.pagination`.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/foodgram/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description "Token <auth_token>"
//
// @tag.name Health
// @tag.description Liveness and readiness checks
// @tag.name Auth
// @tag.description Token login and logout
// @tag.name Users
// @tag.description Signup, profiles, avatar, password and subscriptions
// @tag.name Catalog
// @tag.description Tags and ingredients
// @tag.name Recipes
// @tag.description Recipes, favorites, shopping cart and the shopping list
// @tag.name Links
// @tag.description Generic short links and short-link redirects
package main

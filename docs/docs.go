// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package docs registers the Swagger document served at /swagger/*.
// Regenerate with: swag init -g cmd/server/docs.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["Health"], "summary": "Get system health status", "responses": {"200": {"description": "OK"}}}},
        "/health/live": {"get": {"tags": ["Health"], "summary": "Liveness check", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["Health"], "summary": "Readiness check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/api/auth/token/login/": {"post": {"tags": ["Auth"], "summary": "Obtain an auth token", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/auth/token/logout/": {"post": {"security": [{"TokenAuth": []}], "tags": ["Auth"], "summary": "Revoke the current token", "responses": {"204": {"description": "No Content"}}}},
        "/api/users/": {
            "get": {"tags": ["Users"], "summary": "List users", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Users"], "summary": "Sign up", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/users/{id}/": {"get": {"tags": ["Users"], "summary": "Get a user profile", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/users/me/": {"get": {"security": [{"TokenAuth": []}], "tags": ["Users"], "summary": "Current user", "responses": {"200": {"description": "OK"}}}},
        "/api/users/me/avatar/": {
            "put": {"security": [{"TokenAuth": []}], "tags": ["Users"], "summary": "Set avatar", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["Users"], "summary": "Remove avatar", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/users/set_password/": {"post": {"security": [{"TokenAuth": []}], "tags": ["Users"], "summary": "Change password", "responses": {"204": {"description": "No Content"}}}},
        "/api/users/subscriptions/": {"get": {"security": [{"TokenAuth": []}], "tags": ["Users"], "summary": "My subscriptions", "responses": {"200": {"description": "OK"}}}},
        "/api/users/{id}/subscribe/": {
            "post": {"security": [{"TokenAuth": []}], "tags": ["Users"], "summary": "Subscribe to an author", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["Users"], "summary": "Unsubscribe from an author", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/tags/": {
            "get": {"tags": ["Tags"], "summary": "List tags", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"TokenAuth": []}], "tags": ["Tags"], "summary": "Create a tag", "responses": {"201": {"description": "Created"}}}
        },
        "/api/tags/{id}/": {
            "get": {"tags": ["Tags"], "summary": "Get a tag", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"TokenAuth": []}], "tags": ["Tags"], "summary": "Update a tag", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["Tags"], "summary": "Delete a tag", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/ingredients/": {
            "get": {"tags": ["Ingredients"], "summary": "Search ingredients", "parameters": [{"type": "string", "name": "name", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"TokenAuth": []}], "tags": ["Ingredients"], "summary": "Create an ingredient", "responses": {"201": {"description": "Created"}}}
        },
        "/api/ingredients/{id}/": {
            "get": {"tags": ["Ingredients"], "summary": "Get an ingredient", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"TokenAuth": []}], "tags": ["Ingredients"], "summary": "Update an ingredient", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["Ingredients"], "summary": "Delete an ingredient", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/recipes/": {
            "get": {"tags": ["Recipes"], "summary": "List recipes", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"TokenAuth": []}], "tags": ["Recipes"], "summary": "Create a recipe", "responses": {"201": {"description": "Created"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/recipes/{id}/": {
            "get": {"tags": ["Recipes"], "summary": "Get a recipe", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"TokenAuth": []}], "tags": ["Recipes"], "summary": "Update a recipe", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["Recipes"], "summary": "Delete a recipe", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/recipes/{id}/get-link/": {"get": {"tags": ["Recipes"], "summary": "Get a recipe short link", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/recipes/{id}/favorite/": {
            "post": {"security": [{"TokenAuth": []}], "tags": ["Recipes"], "summary": "Favorite a recipe", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["Recipes"], "summary": "Unfavorite a recipe", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/recipes/{id}/shopping_cart/": {
            "post": {"security": [{"TokenAuth": []}], "tags": ["Recipes"], "summary": "Add a recipe to the cart", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["Recipes"], "summary": "Remove a recipe from the cart", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/recipes/download_shopping_cart/": {"get": {"security": [{"TokenAuth": []}], "produces": ["text/plain"], "tags": ["Recipes"], "summary": "Download the shopping list", "responses": {"200": {"description": "shopping-list.txt"}}}},
        "/api/links/": {
            "get": {"security": [{"TokenAuth": []}], "tags": ["Links"], "summary": "List short links", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"TokenAuth": []}], "tags": ["Links"], "summary": "Shorten a URL", "responses": {"200": {"description": "OK"}, "201": {"description": "Created"}}}
        },
        "/api/links/{token}/": {"delete": {"security": [{"TokenAuth": []}], "tags": ["Links"], "summary": "Deactivate a short link", "parameters": [{"type": "string", "name": "token", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}},
        "/s/{token}": {"get": {"tags": ["Links"], "summary": "Follow a recipe short link", "parameters": [{"type": "string", "name": "token", "in": "path", "required": true}], "responses": {"302": {"description": "Found"}, "404": {"description": "Not Found"}}}},
        "/l/{token}": {"get": {"tags": ["Links"], "summary": "Follow a generic short link", "parameters": [{"type": "string", "name": "token", "in": "path", "required": true}], "responses": {"302": {"description": "Found"}, "404": {"description": "Not Found"}}}}
    },
    "securityDefinitions": {
        "TokenAuth": {
            "description": "Token <jwt> or Bearer <jwt>",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Foodgram API",
	Description:      "Recipe sharing: recipes, favorites, shopping cart, subscriptions and short links.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

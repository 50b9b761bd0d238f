// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/cache"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/models"
	ws "github.com/tomtom215/foodgram/internal/websocket"
)

const testPassword = "correct-horse-battery"

// testDBSemaphore serializes DuckDB instances across tests.
var testDBSemaphore = make(chan struct{}, 1)

var (
	testHashOnce sync.Once
	testHash     string
)

// passwordHash is a low-cost hash of testPassword shared by fixtures.
func passwordHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		testHash = string(h)
	})
	return testHash
}

// recordingEmitter keeps emitted events for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (e *recordingEmitter) Emit(_ context.Context, ev events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *recordingEmitter) topics() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Topic
	}
	return out
}

type testServer struct {
	handler *Handler
	db      *database.DB
	emitter *recordingEmitter
	hub     *ws.Hub
	mux     http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			DefaultPageSize: 6,
			MaxPageSize:     100,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret-that-is-at-least-32-characters",
			SessionTimeout:    time.Hour,
			RateLimitDisabled: true,
		},
		ShoppingList: config.ShoppingListConfig{Header: "Shopping list:"},
		Cache:        config.CacheConfig{TTL: time.Minute},
	}
}

// lockTestDB holds the DuckDB semaphore for the rest of the test.
func lockTestDB(t *testing.T) {
	t.Helper()
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })
}

// newTestServer wires the full router over an in-memory DuckDB.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	lockTestDB(t)
	return openTestServer(t, ":memory:")
}

// openTestServer wires the full router over the DuckDB at path. The caller
// holds lockTestDB.
func openTestServer(t *testing.T, path string, opts ...database.Option) *testServer {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: path, MaxMemory: "256MB"}, opts...)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := testConfig()
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	t.Cleanup(enforcer.Close)

	reads := cache.NewReads(cfg.Cache.TTL)
	t.Cleanup(reads.Close)

	emitter := &recordingEmitter{}
	hub := ws.NewHub()
	handler, err := NewHandler(&Dependencies{
		DB:          db,
		Config:      cfg,
		JWT:         jwtManager,
		Revocations: auth.NewMemoryRevocationStore(),
		Enforcer:    enforcer,
		Reads:       reads,
		Events:      emitter,
		LiveFeed:    hub,
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	return &testServer{
		handler: handler,
		db:      db,
		emitter: emitter,
		hub:     hub,
		mux:     NewRouter(handler).SetupChi(),
	}
}

// testUser is a stored user with a valid token.
type testUser struct {
	*models.User
	token string
}

var userSeq struct {
	sync.Mutex
	n int
}

// createUser stores a user with role and logs them in directly.
func (ts *testServer) createUser(t *testing.T, username, role string) *testUser {
	t.Helper()

	userSeq.Lock()
	userSeq.n++
	n := userSeq.n
	userSeq.Unlock()

	u := &models.User{
		Email:        fmt.Sprintf("%s%d@example.com", username, n),
		Username:     fmt.Sprintf("%s%d", username, n),
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: passwordHash(t),
		Role:         role,
	}
	if err := ts.db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	token, _, err := ts.handler.jwtManager.GenerateToken(u)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return &testUser{User: u, token: token}
}

// do sends a request through the router. token may be empty.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

// envelope is the decoded response with raw data.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) *envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Unmarshal envelope: %v (body %s)", err, rec.Body.String())
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("Unmarshal data: %v (data %s)", err, env.Data)
		}
	}
	return &env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

// catalog seeds a tag and the named ingredients (all in grams) as admin.
type catalog struct {
	tagID       int64
	ingredients map[string]int64
}

func (ts *testServer) seedCatalog(t *testing.T, admin *testUser, names ...string) *catalog {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/tags/", admin.token, TagRequest{Name: "Breakfast", Slug: "breakfast"})
	expectStatus(t, rec, http.StatusCreated)
	var tag models.Tag
	decodeEnvelope(t, rec, &tag)

	c := &catalog{tagID: tag.ID, ingredients: make(map[string]int64)}
	for _, name := range names {
		rec := ts.do(t, http.MethodPost, "/api/ingredients/", admin.token,
			IngredientRequest{Name: name, MeasurementUnit: "g"})
		expectStatus(t, rec, http.StatusCreated)
		var ing models.Ingredient
		decodeEnvelope(t, rec, &ing)
		c.ingredients[name] = ing.ID
	}
	return c
}

// recipeInput builds a valid body using amounts per ingredient name.
func (c *catalog) recipeInput(name string, amounts map[string]int) models.RecipeInput {
	in := models.RecipeInput{
		Name:        name,
		Image:       "data:image/png;base64,iVBORw0KGgo=",
		Text:        "Mix and bake.",
		CookingTime: 30,
		Tags:        []int64{c.tagID},
	}
	for ingName, amount := range amounts {
		in.Ingredients = append(in.Ingredients, models.IngredientAmount{ID: c.ingredients[ingName], Amount: amount})
	}
	return in
}

func (ts *testServer) createRecipe(t *testing.T, author *testUser, in models.RecipeInput) *models.Recipe {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/recipes/", author.token, in)
	expectStatus(t, rec, http.StatusCreated)
	var recipe models.Recipe
	decodeEnvelope(t, rec, &recipe)
	return &recipe
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package authz provides role-based authorization using Casbin.
//
// Three roles form a hierarchy: admin inherits user, user inherits
// anonymous. Objects are the API resources (tags, ingredients, recipes,
// users, links) and actions are read, write and moderate. The model and
// policy are embedded; EnforcerConfig can point at files instead.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/cache"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Objects.
const (
	ObjectTags        = "tags"
	ObjectIngredients = "ingredients"
	ObjectRecipes     = "recipes"
	ObjectUsers       = "users"
	ObjectLinks       = "links"
	ObjectEvents      = "events"
)

// Actions.
const (
	ActionRead     = "read"
	ActionWrite    = "write"
	ActionModerate = "moderate"
)

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath is the path to the Casbin model file.
	// If empty, uses embedded model.
	ModelPath string

	// PolicyPath is the path to the Casbin policy file.
	// If empty, uses embedded policy.
	PolicyPath string

	// ReloadInterval enables periodic policy reload when PolicyPath is set.
	ReloadInterval time.Duration

	// CacheTTL is how long decisions are cached. Zero disables the cache.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns default configuration.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{
		CacheTTL: 5 * time.Minute,
	}
}

// Enforcer wraps the Casbin enforcer with a decision cache.
type Enforcer struct {
	config   *EnforcerConfig
	enforcer *casbin.SyncedEnforcer
	cache    *cache.Cache
}

// NewEnforcer creates a new authorization enforcer.
func NewEnforcer(config *EnforcerConfig) (*Enforcer, error) {
	if config == nil {
		config = DefaultEnforcerConfig()
	}

	var m model.Model
	var err error
	if config.ModelPath != "" && fileExists(config.ModelPath) {
		m, err = model.NewModelFromFile(config.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if config.PolicyPath != "" && fileExists(config.PolicyPath) {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(config.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if config.ReloadInterval > 0 && config.PolicyPath != "" {
		enforcer.StartAutoLoadPolicy(config.ReloadInterval)
	}

	e := &Enforcer{
		config:   config,
		enforcer: enforcer,
	}
	if config.CacheTTL > 0 {
		e.cache = cache.New(config.CacheTTL)
	}
	return e, nil
}

// loadEmbeddedPolicy parses policy CSV lines ("p, sub, obj, act" and
// "g, role, parent") into the enforcer.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch rule := parts[1:]; parts[0] {
		case "p":
			if len(rule) != 3 {
				return fmt.Errorf("malformed policy line %q", line)
			}
			if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", rule, err)
			}
		case "g":
			if len(rule) != 2 {
				return fmt.Errorf("malformed grouping line %q", line)
			}
			if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
			}
		default:
			return fmt.Errorf("unknown policy type %q", parts[0])
		}
	}
	return nil
}

// Enforce reports whether role may perform action on object. An empty role
// is treated as anonymous.
func (e *Enforcer) Enforce(role, object, action string) (bool, error) {
	if role == "" {
		role = auth.RoleAnonymous
	}

	var key string
	if e.cache != nil {
		key = cache.GenerateKey("authz", [3]string{role, object, action})
		if v, ok := e.cache.Get(key); ok {
			allowed, _ := v.(bool)
			metrics.RecordAuthzDecision(object, allowed)
			return allowed, nil
		}
	}

	allowed, err := e.enforcer.Enforce(role, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	metrics.RecordAuthzDecision(object, allowed)

	if e.cache != nil {
		e.cache.Set(key, allowed)
	}
	return allowed, nil
}

// CanModifyRecipe implements author-or-moderator access: the recipe author
// may edit or delete it, and so may any role allowed to moderate recipes.
func (e *Enforcer) CanModifyRecipe(subject *auth.AuthSubject, authorID int64) bool {
	if subject == nil {
		return false
	}
	if subject.ID == authorID {
		return true
	}

	allowed, err := e.Enforce(subject.Role, ObjectRecipes, ActionModerate)
	if err != nil {
		logging.Error().Err(err).Int64("user_id", subject.ID).Msg("Recipe moderation check failed")
		return false
	}
	return allowed
}

// AddPolicy adds a new policy rule and flushes cached decisions.
func (e *Enforcer) AddPolicy(role, object, action string) (bool, error) {
	added, err := e.enforcer.AddPolicy(role, object, action)
	if err != nil {
		return false, fmt.Errorf("failed to add policy: %w", err)
	}
	e.clearCache()
	return added, nil
}

// RemovePolicy removes a policy rule and flushes cached decisions.
func (e *Enforcer) RemovePolicy(role, object, action string) (bool, error) {
	removed, err := e.enforcer.RemovePolicy(role, object, action)
	if err != nil {
		return false, fmt.Errorf("failed to remove policy: %w", err)
	}
	e.clearCache()
	return removed, nil
}

// GetPolicy returns all policy rules.
func (e *Enforcer) GetPolicy() [][]string {
	//nolint:errcheck // GetPolicy only fails if enforcer is nil, which is a programming error
	policies, _ := e.enforcer.GetPolicy()
	return policies
}

// GetImplicitRoles returns the roles role inherits from, directly or transitively.
func (e *Enforcer) GetImplicitRoles(role string) ([]string, error) {
	return e.enforcer.GetImplicitRolesForUser(role)
}

// CacheStats returns decision cache statistics. ok is false when caching is disabled.
func (e *Enforcer) CacheStats() (stats cache.Stats, ok bool) {
	if e.cache == nil {
		return cache.Stats{}, false
	}
	return e.cache.GetStats(), true
}

func (e *Enforcer) clearCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

// Close stops policy reloading and the cache cleanup loop.
func (e *Enforcer) Close() {
	e.enforcer.StopAutoLoadPolicy()
	if e.cache != nil {
		e.cache.Close()
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

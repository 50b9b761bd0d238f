// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topics.
const (
	TopicRecipeCreated     = "recipe.created"
	TopicRecipeUpdated     = "recipe.updated"
	TopicRecipeDeleted     = "recipe.deleted"
	TopicTagChanged        = "tag.changed"
	TopicIngredientChanged = "ingredient.changed"
	TopicLinkCreated       = "link.created"
)

// AllTopics lists every topic in publish order of the recipe lifecycle.
var AllTopics = []string{
	TopicRecipeCreated,
	TopicRecipeUpdated,
	TopicRecipeDeleted,
	TopicTagChanged,
	TopicIngredientChanged,
	TopicLinkCreated,
}

// Event is the payload of every domain event. Only the fields relevant to
// the topic are set.
type Event struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	OccurredAt time.Time `json:"occurred_at"`
	ActorID    int64     `json:"actor_id,omitempty"`

	RecipeID     int64  `json:"recipe_id,omitempty"`
	ShortToken   string `json:"short_token,omitempty"`
	TagID        int64  `json:"tag_id,omitempty"`
	IngredientID int64  `json:"ingredient_id,omitempty"`
	LinkToken    string `json:"link_token,omitempty"`
}

// NewEvent creates an event with a fresh ID and the current time.
func NewEvent(topic string, actorID int64) Event {
	return Event{
		ID:         uuid.New().String(),
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		ActorID:    actorID,
	}
}

// Validate checks that the event has an ID and a known topic.
func (e *Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	for _, t := range AllTopics {
		if e.Topic == t {
			return nil
		}
	}
	return fmt.Errorf("unknown event topic %q", e.Topic)
}

// RecipeCreated builds a recipe.created event.
func RecipeCreated(actorID, recipeID int64, shortToken string) Event {
	e := NewEvent(TopicRecipeCreated, actorID)
	e.RecipeID = recipeID
	e.ShortToken = shortToken
	return e
}

// RecipeUpdated builds a recipe.updated event.
func RecipeUpdated(actorID, recipeID int64, shortToken string) Event {
	e := NewEvent(TopicRecipeUpdated, actorID)
	e.RecipeID = recipeID
	e.ShortToken = shortToken
	return e
}

// RecipeDeleted builds a recipe.deleted event. shortToken is the token the
// deleted recipe held, so consumers can drop cached resolutions.
func RecipeDeleted(actorID, recipeID int64, shortToken string) Event {
	e := NewEvent(TopicRecipeDeleted, actorID)
	e.RecipeID = recipeID
	e.ShortToken = shortToken
	return e
}

// TagChanged builds a tag.changed event.
func TagChanged(actorID, tagID int64) Event {
	e := NewEvent(TopicTagChanged, actorID)
	e.TagID = tagID
	return e
}

// IngredientChanged builds an ingredient.changed event. ingredientID is 0
// for bulk imports.
func IngredientChanged(actorID, ingredientID int64) Event {
	e := NewEvent(TopicIngredientChanged, actorID)
	e.IngredientID = ingredientID
	return e
}

// LinkCreated builds a link.created event.
func LinkCreated(actorID int64, token string) Event {
	e := NewEvent(TopicLinkCreated, actorID)
	e.LinkToken = token
	return e
}

// Marshal encodes an event as JSON.
func Marshal(e *Event) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates an event.
func Unmarshal(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

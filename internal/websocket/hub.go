// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

// ShutdownReason identifies why the hub stopped.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates a parent deadline expired.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types sent to clients. Domain events use MessageTypeEvent with
// the event as data.
const (
	MessageTypeEvent = "event"
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
)

// Message is the frame written to and read from clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub keeps the connected live feed clients and fans domain events out to
// them. Broadcasts are delivered while Serve runs; clients attach and
// detach directly so a stopped hub never blocks a connection.
type Hub struct {
	clients   map[*Client]bool
	broadcast chan Message
	mu        sync.RWMutex
}

// NewHub creates a Hub. Nothing is delivered until Serve runs.
func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan Message, 256),
		clients:   make(map[*Client]bool),
	}
}

// String names the hub in supervisor logs.
func (h *Hub) String() string {
	return "live-feed-hub"
}

// Serve delivers broadcasts until ctx is canceled, then closes every
// client. Shutdown is checked first so a busy broadcast queue cannot delay
// it.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// Attach registers client for broadcasts.
func (h *Hub) Attach(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()

	metrics.LiveFeedClients.Set(float64(n))
	logging.Info().Int64("user_id", client.userID).Int("total_clients", n).Msg("Live feed client connected")
}

// Detach removes client and closes its send channel. Detaching a client
// the hub already dropped is a no-op.
func (h *Hub) Detach(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	metrics.LiveFeedClients.Set(float64(n))
	logging.Info().Int64("user_id", client.userID).Int("total_clients", n).Msg("Live feed client disconnected")
}

// reply queues message for one attached client. The read lock keeps the
// send channel open for the duration of the send.
func (h *Hub) reply(client *Client, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- message:
	default:
	}
}

// shutdown closes all clients and logs why. Cancellation is expected here,
// so it is not logged as an error.
func (h *Hub) shutdown(ctx context.Context) {
	n := h.ClientCount()
	h.closeAllClients()

	reason := ShutdownReasonContextCanceled
	if ctx.Err() == context.DeadlineExceeded {
		reason = ShutdownReasonContextDeadline
	}
	logging.Info().
		Str("component", h.String()).
		Str("reason", string(reason)).
		Int("clients_closed", n).
		Msg("Live feed hub stopped")
}

// sortedClients returns clients in connection order. Caller holds mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients delivers message to every client. A client whose send
// buffer is full is too slow to keep up and is disconnected.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		select {
		case client.send <- message:
			metrics.RecordLiveFeedMessage(true)
		default:
			metrics.RecordLiveFeedMessage(false)
			close(client.send)
			delete(h.clients, client)
			logging.Warn().Int64("user_id", client.userID).Msg("Live feed client too slow, disconnecting")
		}
	}
	metrics.LiveFeedClients.Set(float64(len(h.clients)))
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.LiveFeedClients.Set(0)
}

// BroadcastEvent queues e for every connected client. It never blocks; when
// the queue is full the event is dropped for all clients.
func (h *Hub) BroadcastEvent(e *events.Event) {
	select {
	case h.broadcast <- Message{Type: MessageTypeEvent, Data: e}:
	default:
		metrics.RecordLiveFeedMessage(false)
		logging.Warn().Str("topic", e.Topic).Str("event_id", e.ID).Msg("Live feed queue full, dropping event")
	}
}

// EventHandler adapts the hub for an events.Router subscription.
func (h *Hub) EventHandler() events.EventHandler {
	return func(_ context.Context, e *events.Event) error {
		h.BroadcastEvent(e)
		return nil
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/foodgram/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024

	// Clients only send application pings; anything faster is abuse.
	inboundRate  = rate.Limit(2)
	inboundBurst = 10
	sendBuffer   = 256
)

// clientIDCounter orders clients by connection time.
var clientIDCounter atomic.Uint64

// Client is one live feed connection. readPump and writePump own the
// connection; the hub closes the send channel when it drops the client.
type Client struct {
	id      uint64
	userID  int64
	hub     *Hub
	conn    *websocket.Conn
	send    chan Message
	limiter *rate.Limiter
}

// NewClient creates a Client for the authenticated user userID.
func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		id:      clientIDCounter.Add(1),
		userID:  userID,
		hub:     hub,
		conn:    conn,
		send:    make(chan Message, sendBuffer),
		limiter: rate.NewLimiter(inboundRate, inboundBurst),
	}
}

// ID returns the connection-ordered client ID.
func (c *Client) ID() uint64 {
	return c.id
}

// readPump consumes client frames until the connection fails. It answers
// application pings and drops clients that exceed the inbound rate.
func (c *Client) readPump() {
	defer func() {
		c.hub.Detach(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("Failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Int64("user_id", c.userID).Msg("Unexpected live feed close")
			}
			return
		}

		if !c.limiter.Allow() {
			logging.Warn().Int64("user_id", c.userID).Msg("Live feed client exceeded inbound rate")
			deadline := time.Now().Add(writeWait)
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "rate limit exceeded"), deadline)
			return
		}

		if msg.Type == MessageTypePing {
			c.hub.reply(c, Message{Type: MessageTypePong})
		}
	}
}

// writePump writes queued messages and keeps the connection alive with
// protocol pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Removed by the hub.
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				logging.Debug().Err(err).Int64("user_id", c.userID).Msg("Live feed write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start attaches the client to its hub and runs the read and write pumps.
func (c *Client) Start() {
	c.hub.Attach(c)
	go c.writePump()
	go c.readPump()
}

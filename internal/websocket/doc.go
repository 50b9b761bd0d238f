// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package websocket streams domain events to connected administrators.

The hub-and-spoke design uses gorilla/websocket:

  - Hub: registers clients and fans messages out to them. It runs under the
    supervisor tree in the messaging layer (Serve).
  - Client: one connection with a read pump and a write pump.
  - Message: the JSON frame {"type": ..., "data": ...}.

The events router feeds the hub through EventHandler on the fan-out
subscriber, so every replica streams every event to its own clients:

	router.AddEventHandlers("live_feed", bus.Subscriber(), hub.EventHandler())

Frames sent to clients:

	{"type":"event","data":{"id":"...","topic":"recipe.created","recipe_id":12,...}}
	{"type":"pong"}

Clients may send {"type":"ping"}. Inbound frames are rate limited with
golang.org/x/time/rate; a client that exceeds the limit is closed with
1008 (policy violation). A client that cannot keep up with broadcasts
is disconnected instead of slowing everyone else down.

Timeouts:
  - writeWait: 10 seconds per frame
  - pongWait: 60 seconds without a pong closes the connection
  - pingPeriod: 54 seconds between protocol pings
  - maxMessageSize: 4 KB per inbound frame
*/
package websocket

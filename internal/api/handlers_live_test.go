// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/models"
)

func dialLive(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events/ws/"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func TestLiveEvents(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUser(t, "admin", models.RoleAdmin)
	user := ts.createUser(t, "cook", models.RoleUser)

	expectStatus(t, ts.do(t, http.MethodGet, "/api/events/ws/", "", nil), http.StatusUnauthorized)
	expectStatus(t, ts.do(t, http.MethodGet, "/api/events/ws/", user.token, nil), http.StatusForbidden)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.hub.Serve(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	srv := httptest.NewServer(ts.mux)
	defer srv.Close()

	header := http.Header{"Authorization": {"Token " + admin.token}}

	// Origins outside CORS_ORIGINS are refused during the handshake.
	bad := header.Clone()
	bad.Set("Origin", "https://evil.example.net")
	if _, resp, err := dialLive(t, srv, bad); err == nil || resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign origin: err = %v, resp = %v", err, resp)
	}

	conn, _, err := dialLive(t, srv, header)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for ts.hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never attached")
		}
		time.Sleep(10 * time.Millisecond)
	}

	sent := events.TagChanged(admin.ID, 9)
	ts.hub.BroadcastEvent(&sent)

	var frame struct {
		Type string       `json:"type"`
		Data events.Event `json:"data"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if frame.Type != "event" || frame.Data.ID != sent.ID || frame.Data.TagID != 9 {
		t.Errorf("frame = %+v", frame)
	}
}

func TestLiveEvents_Disabled(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUser(t, "admin", models.RoleAdmin)
	ts.handler.liveFeed = nil

	expectStatus(t, ts.do(t, http.MethodGet, "/api/events/ws/", admin.token, nil), http.StatusServiceUnavailable)
}

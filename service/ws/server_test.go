package ws_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ChatWave/service/ws"
	"ChatWave/service/ws/handlers"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, conf ws.ServerConf) (*ws.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := ws.NewServer(conf)
	handlers.RegisterAll(s)

	r := gin.New()
	r.GET("/ws", s.HandleWS)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		s.Close()
		srv.Close()
	})
	return s, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func readFrame(t *testing.T, c *websocket.Conn) ws.Frame {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f ws.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return f
}

func sendJSON(t *testing.T, c *websocket.Conn, v any) {
	t.Helper()
	if err := c.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// authenticate dials, consumes the connection greeting and completes the auth
// exchange for userID.
func authenticate(t *testing.T, url, userID string) *websocket.Conn {
	t.Helper()
	c := dial(t, url)
	if f := readFrame(t, c); f.Type != ws.TypeConnection {
		t.Fatalf("greeting type = %q, want %q", f.Type, ws.TypeConnection)
	}
	sendJSON(t, c, ws.AuthFrame(userID))
	if f := readFrame(t, c); f.Type != ws.TypeAuthSuccess {
		t.Fatalf("auth reply type = %q, want %q", f.Type, ws.TypeAuthSuccess)
	}
	return c
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestConnectAndAuthenticate(t *testing.T) {
	s, url := newTestServer(t, ws.ServerConf{})
	_ = authenticate(t, url, "alice")

	conn, ok := s.Registry().Lookup("alice")
	if !ok {
		t.Fatal("alice not addressable after auth")
	}
	if !conn.IsOpen() {
		t.Fatal("alice's conn reports closed")
	}
}

func TestAuthMissingUserID(t *testing.T) {
	_, url := newTestServer(t, ws.ServerConf{})
	c := dial(t, url)
	readFrame(t, c) // greeting

	sendJSON(t, c, map[string]any{"type": "auth"})
	f := readFrame(t, c)
	if f.Type != ws.TypeError || f.Message != "Missing userId" {
		t.Fatalf("got %+v, want a Missing userId error", f)
	}
}

func TestMalformedFrameThenPing(t *testing.T) {
	_, url := newTestServer(t, ws.ServerConf{})
	c := dial(t, url)
	readFrame(t, c) // greeting

	if err := c.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := readFrame(t, c)
	if f.Type != ws.TypeError || f.Message != "Invalid message format" {
		t.Fatalf("got %+v, want an Invalid message format error", f)
	}

	// The connection survives the bad frame.
	sendJSON(t, c, ws.Frame{Type: ws.TypePing})
	if f := readFrame(t, c); f.Type != ws.TypePong {
		t.Fatalf("after bad frame, ping got %q, want %q", f.Type, ws.TypePong)
	}
}

func TestUnknownTypeIsIgnored(t *testing.T) {
	_, url := newTestServer(t, ws.ServerConf{})
	c := dial(t, url)
	readFrame(t, c)

	sendJSON(t, c, map[string]any{"type": "no_such_type"})
	sendJSON(t, c, ws.Frame{Type: ws.TypePing})
	if f := readFrame(t, c); f.Type != ws.TypePong {
		t.Fatalf("unknown type should be dropped silently, got %q", f.Type)
	}
}

func TestAbruptCloseUnregisters(t *testing.T) {
	s, url := newTestServer(t, ws.ServerConf{})
	c := authenticate(t, url, "alice")

	_ = c.Close()
	waitFor(t, func() bool {
		_, ok := s.Registry().Lookup("alice")
		return !ok
	}, "alice to be unregistered")
}

func TestDuplicateLoginClosesOldSession(t *testing.T) {
	s, url := newTestServer(t, ws.ServerConf{})
	first := authenticate(t, url, "alice")
	second := authenticate(t, url, "alice")

	f := readFrame(t, first)
	if f.Type != ws.TypeError || f.Message != "replaced by new session" {
		t.Fatalf("displaced session got %+v, want a replacement notice", f)
	}
	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := first.ReadMessage()
	if err == nil {
		t.Fatal("displaced socket should be closed by the server")
	}
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("displaced socket close = %v, want a normal closure after the notice", err)
	}

	// Pushes land on the surviving session only.
	waitFor(t, func() bool {
		return s.Delivery().SendToUser("alice", ws.NewMessageFrame(map[string]string{"content": "hi"}))
	}, "delivery to the new session")
	if f := readFrame(t, second); f.Type != ws.TypeNewMessage {
		t.Fatalf("surviving session got %q, want %q", f.Type, ws.TypeNewMessage)
	}
}

func TestTypingRelay(t *testing.T) {
	_, url := newTestServer(t, ws.ServerConf{})
	a := authenticate(t, url, "alice")
	b := authenticate(t, url, "bob")

	sendJSON(t, a, map[string]any{
		"type": "typing", "senderId": "alice", "receiverId": "bob", "isTyping": true,
	})
	f := readFrame(t, b)
	if f.Type != ws.TypeUserTyping || f.SenderID != "alice" {
		t.Fatalf("bob got %+v, want user_typing from alice", f)
	}
	if f.IsTyping == nil || !*f.IsTyping {
		t.Fatalf("isTyping = %v, want true", f.IsTyping)
	}
}

func TestTypingToOfflineReceiverIsDropped(t *testing.T) {
	_, url := newTestServer(t, ws.ServerConf{})
	a := authenticate(t, url, "alice")

	sendJSON(t, a, map[string]any{
		"type": "typing", "senderId": "alice", "receiverId": "ghost", "isTyping": true,
	})
	// No error comes back and the connection still answers.
	sendJSON(t, a, ws.Frame{Type: ws.TypePing})
	if f := readFrame(t, a); f.Type != ws.TypePong {
		t.Fatalf("got %q, want %q", f.Type, ws.TypePong)
	}
}

func TestGroupTypingFanout(t *testing.T) {
	s, url := newTestServer(t, ws.ServerConf{})
	s.Groups = func(ctx context.Context, groupID string) ([]string, error) {
		return []string{"alice", "bob", "carol"}, nil
	}

	a := authenticate(t, url, "alice")
	b := authenticate(t, url, "bob")
	c := authenticate(t, url, "carol")

	sendJSON(t, c, map[string]any{
		"type": "group_typing", "senderId": "carol", "groupId": "g1", "isTyping": true,
	})

	for name, peer := range map[string]*websocket.Conn{"alice": a, "bob": b} {
		f := readFrame(t, peer)
		if f.Type != ws.TypeUserTyping || f.SenderID != "carol" || f.GroupID != "g1" {
			t.Fatalf("%s got %+v, want group typing from carol", name, f)
		}
	}

	// The sender hears nothing back; the next frame it reads is its own pong.
	sendJSON(t, c, ws.Frame{Type: ws.TypePing})
	if f := readFrame(t, c); f.Type != ws.TypePong {
		t.Fatalf("sender got %q, want %q", f.Type, ws.TypePong)
	}
}

func TestSendMessageAck(t *testing.T) {
	_, url := newTestServer(t, ws.ServerConf{})
	a := authenticate(t, url, "alice")

	sendJSON(t, a, map[string]any{
		"type": "send_message", "_id": "m1", "senderId": "alice", "receiverId": "ghost",
	})
	f := readFrame(t, a)
	if f.Type != ws.TypeMessageSent {
		t.Fatalf("got %q, want %q", f.Type, ws.TypeMessageSent)
	}
	data, _ := f.Data.(map[string]any)
	if data["_id"] != "m1" || data["status"] != "received" {
		t.Fatalf("ack data = %v, want _id m1 status received", f.Data)
	}
}

func TestIdleSweepEvicts(t *testing.T) {
	base := time.Now()
	var offset atomic.Int64
	clock := func() time.Time { return base.Add(time.Duration(offset.Load())) }

	s, url := newTestServer(t, ws.ServerConf{
		IdleTTL:    time.Minute,
		SweepEvery: 20 * time.Millisecond,
		Clock:      clock,
	})
	_ = authenticate(t, url, "alice")

	offset.Store(int64(2 * time.Minute))
	waitFor(t, func() bool {
		_, ok := s.Registry().Lookup("alice")
		return !ok
	}, "idle eviction")
}

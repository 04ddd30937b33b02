package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ChatWave/service/ws"

	"github.com/gorilla/websocket"
)

// testGateway is a minimal upgrade endpoint that records inbound frames and
// lets tests push frames back at the newest connection.
type testGateway struct {
	srv      *httptest.Server
	inbound  chan map[string]any
	conns    chan *websocket.Conn
	dials    atomic.Int64
	hits     atomic.Int64 // handshake attempts, including rejected ones
	reject   atomic.Bool  // refuse the upgrade while set
	dropSoon bool         // close each connection right after the first frame
}

func newTestGateway(t *testing.T, dropSoon bool) *testGateway {
	t.Helper()
	g := &testGateway{
		inbound:  make(chan map[string]any, 32),
		conns:    make(chan *websocket.Conn, 8),
		dropSoon: dropSoon,
	}
	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.hits.Add(1)
		if g.reject.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		c, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		g.dials.Add(1)
		g.conns <- c
		for {
			_, data, rerr := c.ReadMessage()
			if rerr != nil {
				return
			}
			var env map[string]any
			if json.Unmarshal(data, &env) == nil {
				g.inbound <- env
			}
			if g.dropSoon {
				_ = c.Close()
				return
			}
		}
	}))
	t.Cleanup(g.srv.Close)
	return g
}

func (g *testGateway) url() string {
	return "ws" + strings.TrimPrefix(g.srv.URL, "http")
}

func (g *testGateway) nextInbound(t *testing.T) map[string]any {
	t.Helper()
	select {
	case env := <-g.inbound:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("no inbound frame")
		return nil
	}
}

func TestSessionAuthenticatesOnConnect(t *testing.T) {
	g := newTestGateway(t, false)
	s := New(Config{URL: g.url(), UserID: "alice"})
	s.Start()
	defer s.Close()

	env := g.nextInbound(t)
	if env["type"] != ws.TypeAuth || env["userId"] != "alice" {
		t.Fatalf("first frame = %v, want an auth frame for alice", env)
	}
}

func TestSessionDispatchesInboundFrames(t *testing.T) {
	g := newTestGateway(t, false)
	s := New(Config{URL: g.url(), UserID: "alice"})

	got := make(chan map[string]any, 8)
	unregister := s.OnMessage("chat", func(env map[string]any) { got <- env })
	s.Start()
	defer s.Close()

	g.nextInbound(t) // auth
	conn := <-g.conns
	if err := conn.WriteJSON(ws.NewMessageFrame(map[string]string{"content": "hi"})); err != nil {
		t.Fatalf("gateway write: %v", err)
	}

	select {
	case env := <-got:
		if env["type"] != ws.TypeNewMessage {
			t.Fatalf("handler saw type %v, want %v", env["type"], ws.TypeNewMessage)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}

	unregister()
	if err := conn.WriteJSON(ws.PongFrame()); err != nil {
		t.Fatalf("gateway write: %v", err)
	}
	select {
	case env := <-got:
		t.Fatalf("unregistered handler still saw %v", env)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSessionSendWhileDisconnected(t *testing.T) {
	s := New(Config{URL: "ws://127.0.0.1:0", UserID: "alice"})
	if s.Send(ws.Frame{Type: ws.TypePing}) {
		t.Fatal("Send without a connection must report false")
	}
}

func TestSessionHeartbeat(t *testing.T) {
	g := newTestGateway(t, false)
	s := New(Config{URL: g.url(), UserID: "alice", PingInterval: 20 * time.Millisecond})
	s.Start()
	defer s.Close()

	g.nextInbound(t) // auth
	env := g.nextInbound(t)
	if env["type"] != ws.TypePing {
		t.Fatalf("got %v, want a ping", env["type"])
	}
}

func TestSessionReconnectsWithBackoff(t *testing.T) {
	g := newTestGateway(t, true)
	s := New(Config{
		URL:         g.url(),
		UserID:      "alice",
		BaseBackoff: 10 * time.Millisecond,
		MaxAttempts: 5,
	})
	s.Start()
	defer s.Close()

	// The gateway drops each connection after the auth frame; the session
	// must come back and re-authenticate on the new socket.
	first := g.nextInbound(t)
	second := g.nextInbound(t)
	if first["type"] != ws.TypeAuth || second["type"] != ws.TypeAuth {
		t.Fatalf("got %v then %v, want auth on every connect", first["type"], second["type"])
	}
	if g.dials.Load() < 2 {
		t.Fatalf("dials = %d, want at least 2", g.dials.Load())
	}
}

func TestSessionReconnectResumesAfterGivingUp(t *testing.T) {
	g := newTestGateway(t, false)
	g.reject.Store(true)
	s := New(Config{
		URL:         g.url(),
		UserID:      "alice",
		BaseBackoff: time.Millisecond,
		MaxAttempts: 2,
	})
	s.Start()
	defer s.Close()

	deadline := time.Now().Add(2 * time.Second)
	for g.hits.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if g.hits.Load() < 2 {
		t.Fatalf("handshake attempts = %d, want the cap exhausted", g.hits.Load())
	}
	time.Sleep(20 * time.Millisecond) // let the loop park on the attempt cap

	g.reject.Store(false)
	s.Reconnect()

	env := g.nextInbound(t)
	if env["type"] != ws.TypeAuth || env["userId"] != "alice" {
		t.Fatalf("resumed session sent %v, want an auth frame", env)
	}
}

func TestSessionCloseStopsReconnect(t *testing.T) {
	g := newTestGateway(t, true)
	s := New(Config{
		URL:         g.url(),
		UserID:      "alice",
		BaseBackoff: 10 * time.Millisecond,
		MaxAttempts: 5,
	})
	s.Start()
	g.nextInbound(t)
	s.Close()

	time.Sleep(100 * time.Millisecond)
	before := g.dials.Load()
	time.Sleep(100 * time.Millisecond)
	if g.dials.Load() != before {
		t.Fatal("session kept dialing after Close")
	}
}

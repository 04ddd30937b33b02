package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newSocketPair upgrades one real websocket and wraps the server side in a
// Conn. The client side is returned for assertions on what actually hits the
// wire. startWriter controls whether the writer goroutine drains the queue.
func newSocketPair(t *testing.T, id string, queueSize int, startWriter bool) (*Conn, *websocket.Conn) {
	t.Helper()

	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	serverSide := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverSide <- c
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	var wsc *websocket.Conn
	select {
	case wsc = <-serverSide:
	case <-time.After(2 * time.Second):
		t.Fatal("server side never arrived")
	}

	conn := newConn(id, wsc, queueSize, time.Now())
	if startWriter {
		go conn.writeLoop(time.Second)
	}
	t.Cleanup(conn.Close)
	return conn, client
}

func readClientFrame(t *testing.T, client *websocket.Conn) Frame {
	t.Helper()
	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("client read: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode frame %q: %v", data, err)
	}
	return f
}

func TestConnEnqueueAfterClose(t *testing.T) {
	conn, _ := newSocketPair(t, "c1", 4, false)
	conn.Close()
	if err := conn.enqueue([]byte(`{}`)); err == nil {
		t.Fatal("enqueue on closed conn should fail")
	}
	if conn.IsOpen() {
		t.Fatal("closed conn reports open")
	}
}

func TestConnEnqueueQueueFull(t *testing.T) {
	conn, _ := newSocketPair(t, "c1", 1, false)
	if err := conn.enqueue([]byte(`{}`)); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := conn.enqueue([]byte(`{}`)); err == nil {
		t.Fatal("second enqueue should report a full queue")
	}
}

func TestConnCloseAfterDrainDeliversQueued(t *testing.T) {
	conn, client := newSocketPair(t, "c1", 4, true)

	if err := conn.enqueue([]byte(`{"type":"error","message":"replaced by new session"}`)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	conn.CloseAfterDrain()

	f := readClientFrame(t, client)
	if f.Type != TypeError || f.Message != "replaced by new session" {
		t.Fatalf("queued frame lost across close, got %+v", f)
	}

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := client.ReadMessage()
	if err == nil {
		t.Fatal("socket should close after the drain")
	}
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("close err = %v, want a normal closure", err)
	}
}

func TestConnCloseIdempotent(t *testing.T) {
	conn, _ := newSocketPair(t, "c1", 4, true)
	conn.Close()
	conn.Close()
}

package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"ChatWave/logger"
	"ChatWave/tools/errs"

	"github.com/gorilla/websocket"
)

// Conn is one live socket. The user ID is empty until an auth frame is
// accepted. All writes go through the send queue and are drained by a single
// writer goroutine, so frames on one socket never interleave.
type Conn struct {
	ID string

	ws   *websocket.Conn
	send chan []byte
	done chan struct{}

	mu     sync.RWMutex
	userID string

	lastSeen  atomic.Int64 // unix milli
	closed    atomic.Bool
	closeOnce sync.Once
	drain     chan struct{}
	drainOnce sync.Once
}

func newConn(id string, wsc *websocket.Conn, queueSize int, now time.Time) *Conn {
	if queueSize <= 0 {
		queueSize = 256
	}
	c := &Conn{
		ID:    id,
		ws:    wsc,
		send:  make(chan []byte, queueSize),
		done:  make(chan struct{}),
		drain: make(chan struct{}),
	}
	c.lastSeen.Store(now.UnixMilli())
	return c
}

func (c *Conn) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Conn) setUserID(id string) {
	c.mu.Lock()
	c.userID = id
	c.mu.Unlock()
}

func (c *Conn) touch(now time.Time) {
	c.lastSeen.Store(now.UnixMilli())
}

func (c *Conn) lastSeenAt() time.Time {
	return time.UnixMilli(c.lastSeen.Load())
}

// IsOpen reports whether the channel is still writable.
func (c *Conn) IsOpen() bool {
	return !c.closed.Load()
}

var errConnClosed = errs.New("connection closed")
var errSendQueueFull = errs.New("send queue full")

// enqueue hands a payload to the writer goroutine. Non-blocking: a closed
// connection or a full queue reports an error instead of stalling the caller.
func (c *Conn) enqueue(payload []byte) error {
	if c.closed.Load() {
		return errConnClosed
	}
	select {
	case <-c.done:
		return errConnClosed
	case c.send <- payload:
		return nil
	default:
		return errSendQueueFull
	}
}

// writeLoop is the only goroutine that touches the socket for writes.
func (c *Conn) writeLoop(writeWait time.Duration) {
	defer c.Close()
	for {
		select {
		case <-c.done:
			return
		case <-c.drain:
			c.drainAndClose(writeWait)
			return
		case payload := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Infof("[ws] write err conn=%s user=%s err=%v", c.ID, c.UserID(), err)
				return
			}
		}
	}
}

// drainAndClose flushes whatever is still queued, then sends a close frame
// so the peer sees a normal closure instead of a dropped stream.
func (c *Conn) drainAndClose(writeWait time.Duration) {
	for {
		select {
		case payload := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		default:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// CloseAfterDrain hands teardown to the writer: queued frames are flushed
// and a close frame goes out before the socket drops. Requires a running
// writeLoop; Close stays the hard stop.
func (c *Conn) CloseAfterDrain() {
	c.drainOnce.Do(func() { close(c.drain) })
}

// Close is safe to call from any goroutine and any number of times.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		_ = c.ws.Close()
	})
}

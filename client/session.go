// Package client is the session adapter application code talks to: one
// logical connection, re-authentication after reconnect, a keyed
// publish/subscribe surface for inbound frames, and exponential backoff.
package client

import (
	"encoding/json"
	"sync"
	"time"

	"ChatWave/logger"
	"ChatWave/service/ws"

	"github.com/gorilla/websocket"
)

type Config struct {
	URL          string
	UserID       string
	PingInterval time.Duration // default 25s
	BaseBackoff  time.Duration // default 1s, doubles per attempt
	MaxAttempts  int           // default 8; reconnection gives up past this
	Dialer       *websocket.Dialer
}

func (c *Config) norm() {
	if c.PingInterval <= 0 {
		c.PingInterval = 25 * time.Second
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 8
	}
	if c.Dialer == nil {
		c.Dialer = websocket.DefaultDialer
	}
}

type Session struct {
	conf Config

	hmu      sync.RWMutex
	handlers map[string]func(map[string]any)

	mu       sync.Mutex // guards conn, attempts, closed
	conn     *websocket.Conn
	attempts int
	closed   bool

	wmu  sync.Mutex // serializes writes on the socket
	wake chan struct{}
}

func New(conf Config) *Session {
	conf.norm()
	return &Session{
		conf:     conf,
		handlers: make(map[string]func(map[string]any)),
		wake:     make(chan struct{}, 1),
	}
}

// OnMessage registers a callback under handlerID and returns its unregister
// function. Every registered handler sees every inbound frame; features
// filter by type themselves.
func (s *Session) OnMessage(handlerID string, fn func(map[string]any)) func() {
	s.hmu.Lock()
	s.handlers[handlerID] = fn
	s.hmu.Unlock()
	return func() {
		s.hmu.Lock()
		delete(s.handlers, handlerID)
		s.hmu.Unlock()
	}
}

// Send attempts a write and reports false silently when not connected.
// No queuing: a frame sent while disconnected is simply not delivered.
func (s *Session) Send(frame any) bool {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return false
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return false
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload) == nil
}

// Start runs the connect/read/reconnect loop in the background.
func (s *Session) Start() {
	go s.run()
}

// Reconnect resets backoff state and retries immediately.
func (s *Session) Reconnect() {
	s.mu.Lock()
	s.attempts = 0
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Close ends the session for good; no further reconnects.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) run() {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		attempts := s.attempts
		s.mu.Unlock()

		if attempts >= s.conf.MaxAttempts {
			// Park instead of exiting: a manual Reconnect resets the
			// counter and wakes the loop, Close wakes it to stop.
			logger.Warnf("[session] pausing after %d failed attempts", attempts)
			<-s.wake
			continue
		}
		if attempts > 0 {
			delay := s.conf.BaseBackoff << (attempts - 1)
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-s.wake:
				timer.Stop()
				s.mu.Lock()
				if s.closed {
					s.mu.Unlock()
					return
				}
				s.mu.Unlock()
			}
		}

		conn, _, err := s.conf.Dialer.Dial(s.conf.URL, nil)
		if err != nil {
			s.mu.Lock()
			s.attempts++
			s.mu.Unlock()
			logger.Infof("[session] dial failed (attempt %d): %v", attempts+1, err)
			continue
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.conn = conn
		s.attempts = 0
		s.mu.Unlock()

		// Re-authenticate on every (re)connect before anything else.
		s.Send(ws.AuthFrame(s.conf.UserID))

		stopPing := make(chan struct{})
		go s.heartbeat(stopPing)

		s.readLoop(conn)

		close(stopPing)
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		closed := s.closed
		if !closed {
			s.attempts++
		}
		s.mu.Unlock()
		_ = conn.Close()
		if closed {
			return
		}
	}
}

func (s *Session) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env map[string]any
		if jerr := json.Unmarshal(data, &env); jerr != nil {
			continue
		}
		s.hmu.RLock()
		fns := make([]func(map[string]any), 0, len(s.handlers))
		for _, fn := range s.handlers {
			fns = append(fns, fn)
		}
		s.hmu.RUnlock()
		for _, fn := range fns {
			fn(env)
		}
	}
}

// heartbeat is advisory: pongs are not watched for and no disconnect is
// forced from here.
func (s *Session) heartbeat(stop chan struct{}) {
	t := time.NewTicker(s.conf.PingInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s.Send(ws.Frame{Type: ws.TypePing})
		}
	}
}

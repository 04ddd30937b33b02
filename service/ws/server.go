package ws

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"ChatWave/logger"
	storage "ChatWave/service/storage"
	"ChatWave/tools/ids"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type ServerConf struct {
	IdleTTL         time.Duration // <=0 disables the idle sweep
	SweepEvery      time.Duration
	WriteWait       time.Duration
	SendQueueSize   int
	MaxMessageBytes int64
	Clock           func() time.Time // injectable for tests; nil => time.Now
}

func (c *ServerConf) norm() {
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.SweepEvery <= 0 {
		c.SweepEvery = 30 * time.Second
	}
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = 256
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = 512 * 1024
	}
}

// GroupResolver returns the member user IDs of a group; wired in main to the
// group service so the socket layer stays storage-free.
type GroupResolver func(ctx context.Context, groupID string) ([]string, error)

// Server owns the upgrade endpoint, the per-connection read loops and the
// idle sweeper. One goroutine per connection reads; one writes.
type Server struct {
	conf     ServerConf
	reg      *Registry
	disp     *Dispatcher
	delivery *Delivery

	Groups GroupResolver

	upgrader websocket.Upgrader
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewServer(conf ServerConf) *Server {
	conf.norm()
	reg := NewRegistry()
	s := &Server{
		conf:     conf,
		reg:      reg,
		disp:     NewDispatcher(),
		delivery: NewDelivery(reg),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		stopCh: make(chan struct{}),
	}
	if conf.IdleTTL > 0 {
		go s.sweeper()
	}
	return s
}

func (s *Server) Registry() *Registry  { return s.reg }
func (s *Server) Delivery() *Delivery  { return s.delivery }
func (s *Server) Disp() *Dispatcher    { return s.disp }
func (s *Server) Conf() ServerConf     { return s.conf }
func (s *Server) Now() time.Time       { return s.conf.Clock() }

// HandleWS upgrades the request and runs the connection's receive loop until
// the socket closes or errors. Unregister runs unconditionally on the way
// out, whatever the close cause.
func (s *Server) HandleWS(c *gin.Context) {
	wsc, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ws] upgrade error: %v", err)
		return
	}

	conn := newConn(ids.GenerateString(), wsc, s.conf.SendQueueSize, s.Now())
	s.reg.Track(conn)
	go conn.writeLoop(s.conf.WriteWait)
	defer s.teardown(conn)

	s.SendFrame(conn, ConnectionFrame())

	wsc.SetReadLimit(s.conf.MaxMessageBytes)

	for {
		mt, data, rerr := wsc.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] peer closed conn=%s err=%v", conn.ID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[ws] read timeout conn=%s err=%v", conn.ID, rerr)
			} else {
				logger.Infof("[ws] read err conn=%s err=%v", conn.ID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		conn.touch(s.Now())

		env, typ, perr := ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[ws] bad frame conn=%s err=%v sample=%q", conn.ID, perr, sample)
			s.SendFrame(conn, ErrorFrame("Invalid message format"))
			continue
		}

		h := s.disp.GetHandler(typ)
		if h == nil {
			continue
		}
		if herr := h.Handle(&Context{S: s}, env, conn); herr != nil {
			logger.Infof("[ws] handler err type=%s conn=%s err=%v", typ, conn.ID, herr)
		}
	}
}

// SendFrame is for the server's own control replies on one connection;
// application pushes go through Delivery.
func (s *Server) SendFrame(conn *Conn, f Frame) {
	payload, err := json.Marshal(f)
	if err != nil {
		logger.Errorf("[ws] marshal frame type=%s: %v", f.Type, err)
		return
	}
	if err := conn.enqueue(payload); err != nil {
		logger.Infof("[ws] drop frame type=%s conn=%s: %v", f.Type, conn.ID, err)
	}
}

func (s *Server) teardown(conn *Conn) {
	s.reg.Unregister(conn)
	if uid := conn.UserID(); uid != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = storage.PresenceOffline(ctx, uid)
		cancel()
	}
	conn.Close()
	logger.Infof("[ws] closed conn=%s user=%s", conn.ID, conn.UserID())
}

func (s *Server) sweeper() {
	t := time.NewTicker(s.conf.SweepEvery)
	defer t.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-t.C:
			for _, conn := range s.reg.sweepIdle(s.Now(), s.conf.IdleTTL) {
				logger.Infof("[ws] evict idle conn=%s user=%s", conn.ID, conn.UserID())
				s.teardown(conn)
			}
		}
	}
}

// Close stops the sweeper and drops every connection.
func (s *Server) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	for _, conn := range s.reg.sweepIdle(s.Now().Add(1000*time.Hour), 0) {
		conn.Close()
	}
}

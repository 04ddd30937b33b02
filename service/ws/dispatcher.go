package ws

import (
	"fmt"

	"github.com/golang/glog"
)

// Handler processes one inbound frame type. The envelope is the parsed JSON
// object; handlers decode it into their own payload structs.
type Handler interface {
	Type() string
	Handle(ctx *Context, env map[string]any, conn *Conn) error
}

// Context carries the server into handlers.
type Context struct {
	S *Server
}

type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(h Handler) { d.handlers[h.Type()] = h }

func (d *Dispatcher) Dispatch(ctx *Context, typ string, env map[string]any, conn *Conn) error {
	h, ok := d.handlers[typ]
	if !ok {
		return fmt.Errorf("no handler for type=%q", typ)
	}
	return h.Handle(ctx, env, conn)
}

// GetHandler returns nil for unrecognized types; the miss is logged and the
// frame is dropped without closing the connection.
func (d *Dispatcher) GetHandler(typ string) Handler {
	h, ok := d.handlers[typ]
	if !ok {
		glog.Infof("no handler for type=%q", typ)
		return nil
	}
	return h
}

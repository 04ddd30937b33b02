package handlers

import (
	"context"
	"time"

	storage "ChatWave/service/storage"
	"ChatWave/service/ws"
)

type PingHandler struct{}

func NewPingHandler() ws.Handler { return &PingHandler{} }

func (h *PingHandler) Type() string { return ws.TypePing }

// Handle answers the liveness probe. The read loop already refreshed
// lastSeen; here the redis presence TTL gets renewed for authenticated
// connections. Heartbeat stays advisory: no timeout is enforced from it.
func (h *PingHandler) Handle(ctx *ws.Context, _ map[string]any, conn *ws.Conn) error {
	if uid := conn.UserID(); uid != "" {
		cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = storage.PresenceOnline(cctx, uid, conn.ID, presenceTTL)
		cancel()
	}
	ctx.S.SendFrame(conn, ws.PongFrame())
	return nil
}

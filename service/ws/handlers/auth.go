package handlers

import (
	"context"
	"time"

	"ChatWave/logger"
	storage "ChatWave/service/storage"
	"ChatWave/service/ws"
	"ChatWave/tools/decode"
)

// presenceTTL bounds the redis mirror; heartbeats refresh it.
const presenceTTL = 2 * time.Hour

type AuthHandler struct{}

func NewAuthHandler() ws.Handler { return &AuthHandler{} }

func (h *AuthHandler) Type() string { return ws.TypeAuth }

// Handle binds the socket to the declared user. A second auth for an already
// registered user replaces the prior entry: the superseded socket is told why
// and closed instead of dangling until a transport timeout.
func (h *AuthHandler) Handle(ctx *ws.Context, env map[string]any, conn *ws.Conn) error {
	p, err := decode.DecodeMap[ws.AuthPayload](env)
	if err != nil || p.UserID == "" {
		ctx.S.SendFrame(conn, ws.ErrorFrame("Missing userId"))
		return nil
	}

	displaced := ctx.S.Registry().Register(p.UserID, conn)
	if displaced != nil && displaced != conn {
		ctx.S.SendFrame(displaced, ws.ErrorFrame("replaced by new session"))
		displaced.CloseAfterDrain()
		logger.Infof("[auth] replaced session user=%s old=%s new=%s", p.UserID, displaced.ID, conn.ID)
	}

	cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := storage.PresenceOnline(cctx, p.UserID, conn.ID, presenceTTL); err != nil {
		logger.Infof("[auth] presence mirror err user=%s: %v", p.UserID, err)
	}
	cancel()

	ctx.S.SendFrame(conn, ws.AuthSuccessFrame())
	return nil
}

package handlers

import (
	"context"
	"time"

	"ChatWave/logger"
	"ChatWave/service/ws"
	"ChatWave/tools/decode"
)

type TypingHandler struct{}

func NewTypingHandler() ws.Handler { return &TypingHandler{} }

func (h *TypingHandler) Type() string { return ws.TypeTyping }

// Handle relays a direct-chat typing signal. Deliberately lenient: the
// identifiers come from the payload, so an unauthenticated sender is relayed
// as-is rather than rejected.
func (h *TypingHandler) Handle(ctx *ws.Context, env map[string]any, conn *ws.Conn) error {
	p, err := decode.DecodeMap[ws.TypingPayload](env)
	if err != nil || p.ReceiverID == "" {
		ctx.S.SendFrame(conn, ws.ErrorFrame("Missing receiverId"))
		return nil
	}
	ctx.S.Delivery().SendToUser(p.ReceiverID, ws.UserTypingFrame(p.SenderID, p.IsTyping))
	return nil
}

type GroupTypingHandler struct{}

func NewGroupTypingHandler() ws.Handler { return &GroupTypingHandler{} }

func (h *GroupTypingHandler) Type() string { return ws.TypeGroupTyping }

// Handle fans a typing signal out to every group member except the sender.
// Membership comes through the server's resolver so this layer never touches
// storage directly.
func (h *GroupTypingHandler) Handle(ctx *ws.Context, env map[string]any, conn *ws.Conn) error {
	p, err := decode.DecodeMap[ws.GroupTypingPayload](env)
	if err != nil || p.GroupID == "" {
		ctx.S.SendFrame(conn, ws.ErrorFrame("Missing groupId"))
		return nil
	}
	if ctx.S.Groups == nil {
		return nil
	}

	cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	members, rerr := ctx.S.Groups(cctx, p.GroupID)
	cancel()
	if rerr != nil {
		logger.Infof("[typing] group resolve err group=%s: %v", p.GroupID, rerr)
		return nil
	}

	frame := ws.GroupUserTypingFrame(p.SenderID, p.GroupID, p.IsTyping)
	for _, m := range members {
		if m == p.SenderID {
			continue
		}
		ctx.S.Delivery().SendToUser(m, frame)
	}
	return nil
}

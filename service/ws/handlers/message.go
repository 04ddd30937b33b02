package handlers

import (
	"ChatWave/service/ws"
	"ChatWave/tools/decode"
)

// send_message / send_group_message over the socket are client-side hints
// only: the authoritative write is the REST path, which calls Delivery after
// persisting. These handlers confirm receipt to the sender and emit the
// typing-stop side effect; the socket layer is never a source of truth for
// message durability.

type SendMessageHandler struct{}

func NewSendMessageHandler() ws.Handler { return &SendMessageHandler{} }

func (h *SendMessageHandler) Type() string { return ws.TypeSendMessage }

func (h *SendMessageHandler) Handle(ctx *ws.Context, env map[string]any, conn *ws.Conn) error {
	p, err := decode.DecodeMap[ws.SendMessagePayload](env)
	if err != nil {
		ctx.S.SendFrame(conn, ws.ErrorFrame("Invalid message format"))
		return nil
	}
	ctx.S.SendFrame(conn, ws.MessageSentFrame(p.ID, "received"))
	if p.ReceiverID != "" {
		ctx.S.Delivery().SendToUser(p.ReceiverID, ws.UserTypingFrame(p.SenderID, false))
	}
	return nil
}

type SendGroupMessageHandler struct{}

func NewSendGroupMessageHandler() ws.Handler { return &SendGroupMessageHandler{} }

func (h *SendGroupMessageHandler) Type() string { return ws.TypeSendGroupMessage }

func (h *SendGroupMessageHandler) Handle(ctx *ws.Context, env map[string]any, conn *ws.Conn) error {
	p, err := decode.DecodeMap[ws.SendMessagePayload](env)
	if err != nil {
		ctx.S.SendFrame(conn, ws.ErrorFrame("Invalid message format"))
		return nil
	}
	ctx.S.SendFrame(conn, ws.MessageSentFrame(p.ID, "received"))
	return nil
}

// RegisterAll wires every frame handler into the server's dispatcher.
func RegisterAll(s *ws.Server) {
	s.Disp().Register(NewAuthHandler())
	s.Disp().Register(NewPingHandler())
	s.Disp().Register(NewTypingHandler())
	s.Disp().Register(NewGroupTypingHandler())
	s.Disp().Register(NewSendMessageHandler())
	s.Disp().Register(NewSendGroupMessageHandler())
}

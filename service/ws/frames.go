package ws

import (
	"encoding/json"

	"ChatWave/tools/errs"
)

// Frame type tags, client to server.
const (
	TypeAuth             = "auth"
	TypePing             = "ping"
	TypeTyping           = "typing"
	TypeGroupTyping      = "group_typing"
	TypeSendMessage      = "send_message"
	TypeSendGroupMessage = "send_group_message"
)

// Frame type tags, server to client.
const (
	TypeAuthSuccess     = "auth_success"
	TypePong            = "pong"
	TypeUserTyping      = "user_typing"
	TypeNewMessage      = "new_message"
	TypeMessageSent     = "message_sent"
	TypeNewNotification = "new_notification"
	TypeConnection      = "connection"
	TypeError           = "error"
)

// Frame is the outbound JSON envelope. Only the fields a given type uses are
// populated; everything else stays omitted on the wire.
type Frame struct {
	Type     string `json:"type"`
	Message  string `json:"message,omitempty"`
	UserID   string `json:"userId,omitempty"`
	SenderID string `json:"senderId,omitempty"`
	GroupID  string `json:"groupId,omitempty"`
	IsTyping *bool  `json:"isTyping,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// AuthFrame is the client-side authentication request.
func AuthFrame(userID string) Frame {
	return Frame{Type: TypeAuth, UserID: userID}
}

// ParseFrame decodes an inbound text frame into a generic envelope and pulls
// out its declared type. Handlers decode the envelope into their own typed
// payloads (tools/decode).
func ParseFrame(raw []byte) (map[string]any, string, error) {
	var env map[string]any
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, "", err
	}
	typ, ok := env["type"].(string)
	if !ok || typ == "" {
		return nil, "", errs.New("frame missing type")
	}
	return env, typ, nil
}

// ---- inbound payloads ----

type AuthPayload struct {
	UserID string `json:"userId"`
}

type TypingPayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	IsTyping   bool   `json:"isTyping"`
}

type GroupTypingPayload struct {
	SenderID string `json:"senderId"`
	GroupID  string `json:"groupId"`
	IsTyping bool   `json:"isTyping"`
}

type SendMessagePayload struct {
	ID         string `json:"_id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	GroupID    string `json:"groupId"`
}

// ---- outbound builders ----

func ConnectionFrame() Frame {
	return Frame{Type: TypeConnection, Message: "connected"}
}

func AuthSuccessFrame() Frame {
	return Frame{Type: TypeAuthSuccess, Message: "authenticated"}
}

func PongFrame() Frame {
	return Frame{Type: TypePong}
}

func ErrorFrame(msg string) Frame {
	return Frame{Type: TypeError, Message: msg}
}

func UserTypingFrame(senderID string, isTyping bool) Frame {
	return Frame{Type: TypeUserTyping, SenderID: senderID, IsTyping: &isTyping}
}

func GroupUserTypingFrame(senderID, groupID string, isTyping bool) Frame {
	return Frame{Type: TypeUserTyping, SenderID: senderID, GroupID: groupID, IsTyping: &isTyping}
}

func NewMessageFrame(data any) Frame {
	return Frame{Type: TypeNewMessage, Data: data}
}

func MessageSentFrame(id, status string) Frame {
	return Frame{Type: TypeMessageSent, Data: map[string]string{"_id": id, "status": status}}
}

func NewNotificationFrame(data any) Frame {
	return Frame{Type: TypeNewNotification, Data: data}
}

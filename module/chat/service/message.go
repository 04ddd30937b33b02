package service

import (
	"context"
	"time"

	chatmodel "ChatWave/module/chat/model"
	"ChatWave/module/notification"
	notifmodel "ChatWave/module/notification/model"
	mgo "ChatWave/service/mgo"
	"ChatWave/service/ws"
	"ChatWave/tools/errs"
	"ChatWave/tools/ids"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Service struct {
	delivery *ws.Delivery
	notify   *notification.Service
}

func NewService(delivery *ws.Delivery, notify *notification.Service) *Service {
	return &Service{delivery: delivery, notify: notify}
}

// SendDirect persists the message, then best-effort pushes it. The socket
// push is at most once: when the receiver is offline the stored message is
// the fallback and a notification records the miss for the next fetch.
func (s *Service) SendDirect(ctx context.Context, senderID, receiverID, content string, contentType int32) (*chatmodel.Message, bool, error) {
	if receiverID == "" || content == "" {
		return nil, false, errs.ErrInvalidParam.WithDetail("receiverId and content are required")
	}
	if contentType == 0 {
		contentType = chatmodel.ContentText
	}

	m := &chatmodel.Message{
		ID:          ids.GenerateString(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		ContentType: contentType,
		Status:      chatmodel.MsgNormal,
		CreateTime:  time.Now(),
	}
	if _, err := mgo.Coll(chatmodel.CollMessages).InsertOne(ctx, m); err != nil {
		return nil, false, err
	}

	delivered := s.delivery.SendToUser(receiverID, ws.NewMessageFrame(m))

	status := "sent"
	if delivered {
		status = "delivered"
	}
	s.delivery.SendToUser(senderID, ws.MessageSentFrame(m.ID, status))

	if !delivered {
		_, _ = s.notify.Push(ctx, receiverID, notifmodel.KindMessage, map[string]any{
			"messageId": m.ID,
			"senderId":  senderID,
			"preview":   preview(content),
		})
	}
	return m, delivered, nil
}

// History pages a direct conversation backwards from the cursor.
func (s *Service) History(ctx context.Context, userID, peerID string, before time.Time, limit int64) ([]chatmodel.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if before.IsZero() {
		before = time.Now()
	}
	filter := bson.M{
		"status":      bson.M{"$ne": chatmodel.MsgDeleted},
		"create_time": bson.M{"$lt": before},
		"$or": []bson.M{
			{"sender_id": userID, "receiver_id": peerID},
			{"sender_id": peerID, "receiver_id": userID},
		},
	}
	cur, err := mgo.Coll(chatmodel.CollMessages).Find(ctx, filter,
		options.Find().SetSort(bson.M{"create_time": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	var out []chatmodel.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func preview(content string) string {
	const max = 80
	if len(content) > max {
		return content[:max]
	}
	return content
}

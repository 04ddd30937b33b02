package notification

import (
	"context"
	"time"

	"ChatWave/logger"
	notifmodel "ChatWave/module/notification/model"
	mgo "ChatWave/service/mgo"
	storage "ChatWave/service/storage"
	"ChatWave/service/ws"
	"ChatWave/tools/ids"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Service struct {
	delivery *ws.Delivery
}

func NewService(delivery *ws.Delivery) *Service {
	return &Service{delivery: delivery}
}

// Push persists the notification, bumps the unread badge, and best-effort
// pushes a new_notification frame. A missed push is fine: the counter and
// the stored doc are what the client fetches on its next poll.
func (s *Service) Push(ctx context.Context, userID, kind string, payload map[string]any) (*notifmodel.Notification, error) {
	n := &notifmodel.Notification{
		ID:         ids.GenerateString(),
		UserID:     userID,
		Kind:       kind,
		Payload:    payload,
		CreateTime: time.Now(),
	}
	if _, err := mgo.Coll(notifmodel.CollNotifications).InsertOne(ctx, n); err != nil {
		return nil, err
	}

	unread, err := storage.UnreadIncr(ctx, userID)
	if err != nil {
		logger.Infof("[notify] unread counter err user=%s: %v", userID, err)
	}

	s.delivery.SendToUser(userID, ws.NewNotificationFrame(map[string]any{
		"notification": n,
		"unread":       unread,
	}))
	return n, nil
}

func (s *Service) List(ctx context.Context, userID string, limit int64) ([]notifmodel.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	cur, err := mgo.Coll(notifmodel.CollNotifications).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"create_time": -1}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	var out []notifmodel.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkAllRead flips stored docs and clears the redis badge.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	_, err := mgo.Coll(notifmodel.CollNotifications).UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if err := storage.UnreadReset(ctx, userID); err != nil {
		logger.Infof("[notify] unread reset err user=%s: %v", userID, err)
	}
	return nil
}

func (s *Service) Unread(ctx context.Context, userID string) int64 {
	n, err := storage.UnreadCount(ctx, userID)
	if err != nil {
		return 0
	}
	return n
}

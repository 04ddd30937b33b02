package service

import (
	"context"
	"time"

	chatmodel "ChatWave/module/chat/model"
	groupmodel "ChatWave/module/group/model"
	"ChatWave/module/notification"
	notifmodel "ChatWave/module/notification/model"
	mgo "ChatWave/service/mgo"
	"ChatWave/service/ws"
	"ChatWave/tools/errs"
	"ChatWave/tools/ids"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func mongoFindDesc(limit int64) *options.FindOptions {
	return options.Find().SetSort(bson.M{"create_time": -1}).SetLimit(limit)
}

type Service struct {
	delivery *ws.Delivery
	notify   *notification.Service
}

func NewService(delivery *ws.Delivery, notify *notification.Service) *Service {
	return &Service{delivery: delivery, notify: notify}
}

func (s *Service) Create(ctx context.Context, ownerID, name string, memberIDs []string) (*groupmodel.Group, error) {
	if name == "" {
		return nil, errs.ErrInvalidParam.WithDetail("name is required")
	}
	members := append([]string{ownerID}, memberIDs...)
	members = dedup(members)

	now := time.Now()
	g := &groupmodel.Group{
		GroupID:    ids.GenerateString(),
		Name:       name,
		OwnerID:    ownerID,
		MemberIDs:  members,
		CreateTime: now,
		UpdateTime: now,
	}
	if _, err := mgo.Coll(groupmodel.CollGroups).InsertOne(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) Get(ctx context.Context, groupID string) (*groupmodel.Group, error) {
	var g groupmodel.Group
	err := mgo.Coll(groupmodel.CollGroups).FindOne(ctx, bson.M{"group_id": groupID}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, errs.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Service) Join(ctx context.Context, groupID, userID string) error {
	res, err := mgo.Coll(groupmodel.CollGroups).UpdateOne(ctx,
		bson.M{"group_id": groupID},
		bson.M{"$addToSet": bson.M{"member_ids": userID}, "$set": bson.M{"update_time": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrRecordNotFound
	}
	return nil
}

func (s *Service) Leave(ctx context.Context, groupID, userID string) error {
	res, err := mgo.Coll(groupmodel.CollGroups).UpdateOne(ctx,
		bson.M{"group_id": groupID},
		bson.M{"$pull": bson.M{"member_ids": userID}, "$set": bson.M{"update_time": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrRecordNotFound
	}
	return nil
}

// MemberIDs feeds the socket layer's group resolver. Called from the ws read
// loop, which has no route guard, so the readiness check lives here.
func (s *Service) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	if !mgo.Ready() {
		return nil, errs.ErrInternal.WithDetail("database not ready")
	}
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return g.MemberIDs, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]groupmodel.Group, error) {
	cur, err := mgo.Coll(groupmodel.CollGroups).Find(ctx, bson.M{"member_ids": userID})
	if err != nil {
		return nil, err
	}
	var out []groupmodel.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage persists a group message and fans it out to every connected
// member except the sender. Offline members get a notification record.
func (s *Service) SendMessage(ctx context.Context, groupID, senderID, content string, contentType int32) (*chatmodel.Message, error) {
	if content == "" {
		return nil, errs.ErrInvalidParam.WithDetail("content is required")
	}
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !contains(g.MemberIDs, senderID) {
		return nil, errs.ErrInvalidParam.WithDetail("sender is not a member")
	}
	if contentType == 0 {
		contentType = chatmodel.ContentText
	}

	m := &chatmodel.Message{
		ID:          ids.GenerateString(),
		SenderID:    senderID,
		GroupID:     groupID,
		Content:     content,
		ContentType: contentType,
		Status:      chatmodel.MsgNormal,
		CreateTime:  time.Now(),
	}
	if _, err := mgo.Coll(chatmodel.CollMessages).InsertOne(ctx, m); err != nil {
		return nil, err
	}

	frame := ws.NewMessageFrame(m)
	for _, member := range g.MemberIDs {
		if member == senderID {
			continue
		}
		if !s.delivery.SendToUser(member, frame) {
			_, _ = s.notify.Push(ctx, member, notifmodel.KindGroupMessage, map[string]any{
				"messageId": m.ID,
				"groupId":   groupID,
				"senderId":  senderID,
			})
		}
	}
	s.delivery.SendToUser(senderID, ws.MessageSentFrame(m.ID, "sent"))
	return m, nil
}

func (s *Service) History(ctx context.Context, groupID string, before time.Time, limit int64) ([]chatmodel.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if before.IsZero() {
		before = time.Now()
	}
	cur, err := mgo.Coll(chatmodel.CollMessages).Find(ctx,
		bson.M{
			"group_id":    groupID,
			"status":      bson.M{"$ne": chatmodel.MsgDeleted},
			"create_time": bson.M{"$lt": before},
		},
		mongoFindDesc(limit))
	if err != nil {
		return nil, err
	}
	var out []chatmodel.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func contains(in []string, v string) bool {
	for _, x := range in {
		if x == v {
			return true
		}
	}
	return false
}

package model

import "time"

const CollMessages = "messages"

// ContentType
const (
	ContentText  int32 = 1
	ContentImage int32 = 2
	ContentFile  int32 = 3
)

// Status
const (
	MsgNormal  int32 = 0
	MsgRevoked int32 = 1
	MsgDeleted int32 = 2
)

// Message is one direct or group message. Exactly one of ReceiverID and
// GroupID is set.
type Message struct {
	ID          string    `bson:"_id" json:"_id"`
	SenderID    string    `bson:"sender_id" json:"senderId"`
	ReceiverID  string    `bson:"receiver_id,omitempty" json:"receiverId,omitempty"`
	GroupID     string    `bson:"group_id,omitempty" json:"groupId,omitempty"`
	Content     string    `bson:"content" json:"content"`
	ContentType int32     `bson:"content_type" json:"contentType"`
	Status      int32     `bson:"status" json:"status"`
	CreateTime  time.Time `bson:"create_time" json:"createTime"`
}

package model

import "time"

const CollNotifications = "notifications"

// Kind
const (
	KindMessage      = "message"
	KindGroupMessage = "group_message"
	KindContact      = "contact"
	KindSystem       = "system"
)

type Notification struct {
	ID         string         `bson:"_id" json:"_id"`
	UserID     string         `bson:"user_id" json:"userId"`
	Kind       string         `bson:"kind" json:"kind"`
	Payload    map[string]any `bson:"payload,omitempty" json:"payload,omitempty"`
	Read       bool           `bson:"read" json:"read"`
	CreateTime time.Time      `bson:"create_time" json:"createTime"`
}

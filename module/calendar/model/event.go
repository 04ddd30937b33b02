package model

import "time"

const CollEvents = "calendar_events"

type Event struct {
	EventID    string    `bson:"event_id" json:"eventId"`
	UserID     string    `bson:"user_id" json:"userId"`
	Title      string    `bson:"title" json:"title"`
	Note       string    `bson:"note,omitempty" json:"note,omitempty"`
	StartsAt   time.Time `bson:"starts_at" json:"startsAt"`
	EndsAt     time.Time `bson:"ends_at" json:"endsAt"`
	CreateTime time.Time `bson:"create_time" json:"createTime"`
	UpdateTime time.Time `bson:"update_time" json:"updateTime"`
}

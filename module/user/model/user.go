package model

import "time"

const CollUsers = "users"

// Status
const (
	UserNormal int32 = 0
	UserBanned int32 = 1
	UserClosed int32 = 2
)

// User is the account master record. Preferences, security flags and
// subscription state live in their own collections (module/settings,
// module/billing).
type User struct {
	UserID       string    `bson:"user_id" json:"userId"`
	Nickname     string    `bson:"nickname" json:"nickname"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	FaceURL      string    `bson:"face_url" json:"faceUrl"`
	Bio          string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Status       int32     `bson:"status" json:"status"`
	CreateTime   time.Time `bson:"create_time" json:"createTime"`
	UpdateTime   time.Time `bson:"update_time" json:"updateTime"`
}

package model

import "time"

const CollUserSessions = "user_sessions"

// UserSession records one issued token. Only the hash is kept; the raw token
// never touches the database.
type UserSession struct {
	SessionID       string    `bson:"session_id" json:"sessionId"`
	UserID          string    `bson:"user_id" json:"userId"`
	AccessTokenHash string    `bson:"access_token_hash" json:"-"`
	UserAgent       string    `bson:"user_agent,omitempty" json:"userAgent,omitempty"`
	IP              string    `bson:"ip,omitempty" json:"ip,omitempty"`
	IsValid         bool      `bson:"is_valid" json:"isValid"`
	LoginTime       time.Time `bson:"login_time" json:"loginTime"`
	ExpireAt        time.Time `bson:"expire_at" json:"expireAt"`
}

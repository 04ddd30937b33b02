package model

import "time"

const CollSettings = "user_settings"

// Settings holds per-user preferences, one document per user.
type Settings struct {
	UserID          string    `bson:"user_id" json:"userId"`
	Theme           string    `bson:"theme" json:"theme"`
	Language        string    `bson:"language" json:"language"`
	ShowLastSeen    bool      `bson:"show_last_seen" json:"showLastSeen"`
	ReadReceipts    bool      `bson:"read_receipts" json:"readReceipts"`
	TwoFactor       bool      `bson:"two_factor" json:"twoFactor"`
	NotifyOnMessage bool      `bson:"notify_on_message" json:"notifyOnMessage"`
	UpdateTime      time.Time `bson:"update_time" json:"updateTime"`
}

// Defaults are applied on first read when no document exists yet.
func Defaults(userID string) Settings {
	return Settings{
		UserID:          userID,
		Theme:           "light",
		Language:        "en",
		ShowLastSeen:    true,
		ReadReceipts:    true,
		NotifyOnMessage: true,
	}
}

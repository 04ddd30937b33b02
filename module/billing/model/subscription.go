package model

import "time"

const CollSubscriptions = "subscriptions"

const (
	PlanFree = "free"
	PlanPro  = "pro"
	PlanTeam = "team"

	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

type Subscription struct {
	UserID     string    `bson:"user_id" json:"userId"`
	Plan       string    `bson:"plan" json:"plan"`
	Status     string    `bson:"status" json:"status"`
	RenewsAt   time.Time `bson:"renews_at" json:"renewsAt"`
	CreateTime time.Time `bson:"create_time" json:"createTime"`
	UpdateTime time.Time `bson:"update_time" json:"updateTime"`
}

func ValidPlan(p string) bool {
	return p == PlanFree || p == PlanPro || p == PlanTeam
}

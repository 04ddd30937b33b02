package model

import "time"

const CollGroups = "groups"

type Group struct {
	GroupID    string    `bson:"group_id" json:"groupId"`
	Name       string    `bson:"name" json:"name"`
	OwnerID    string    `bson:"owner_id" json:"ownerId"`
	MemberIDs  []string  `bson:"member_ids" json:"memberIds"`
	FaceURL    string    `bson:"face_url,omitempty" json:"faceUrl,omitempty"`
	CreateTime time.Time `bson:"create_time" json:"createTime"`
	UpdateTime time.Time `bson:"update_time" json:"updateTime"`
}

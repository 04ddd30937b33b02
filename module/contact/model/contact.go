package model

import "time"

const CollContacts = "contacts"

type Contact struct {
	OwnerID    string    `bson:"owner_id" json:"ownerId"`
	ContactID  string    `bson:"contact_id" json:"contactId"`
	Alias      string    `bson:"alias,omitempty" json:"alias,omitempty"`
	CreateTime time.Time `bson:"create_time" json:"createTime"`
}

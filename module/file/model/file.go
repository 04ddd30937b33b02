package model

import "time"

const CollFiles = "files"

// File is upload metadata; the blob itself lives on disk under StoredName.
type File struct {
	FileID      string    `bson:"file_id" json:"fileId"`
	OwnerID     string    `bson:"owner_id" json:"ownerId"`
	Name        string    `bson:"name" json:"name"`
	Size        int64     `bson:"size" json:"size"`
	ContentType string    `bson:"content_type" json:"contentType"`
	StoredName  string    `bson:"stored_name" json:"-"`
	CreateTime  time.Time `bson:"create_time" json:"createTime"`
}

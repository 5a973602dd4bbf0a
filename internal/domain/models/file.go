package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File is an uploaded attachment. The blob is stored inline in the
// document; Data is excluded from JSON and from metadata projections.
type File struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OriginalName string             `bson:"original_name" json:"original_name"`
	Data         []byte             `bson:"data" json:"-"`
	MimeType     string             `bson:"mime_type" json:"mime_type"`
	Size         int64              `bson:"size" json:"size"`
	UploaderID   primitive.ObjectID `bson:"uploader_id" json:"uploader_id"`
	ThreadID     primitive.ObjectID `bson:"thread_id" json:"thread_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

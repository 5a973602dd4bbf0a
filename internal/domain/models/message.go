package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Block types a message can carry.
const (
	BlockTypeText = "text"
	BlockTypeCode = "code"
	BlockTypeFile = "file"
)

// Block is one structured segment of a message body. Text and code blocks
// carry their content inline; file blocks reference an uploaded file and
// duplicate its display metadata so listings don't need a second lookup.
type Block struct {
	Type     string              `bson:"type" json:"type"` // text | code | file
	Content  string              `bson:"content,omitempty" json:"content,omitempty"`
	Language string              `bson:"language,omitempty" json:"language,omitempty"`
	FileID   *primitive.ObjectID `bson:"file_id,omitempty" json:"file_id,omitempty"`
	FileName string              `bson:"file_name,omitempty" json:"file_name,omitempty"`
	FileSize int64               `bson:"file_size,omitempty" json:"file_size,omitempty"`
	FileType string              `bson:"file_type,omitempty" json:"file_type,omitempty"`
}

// Message is one post in a thread. Either Content or Blocks must be
// non-empty; both may be present. IsEdited is set on first edit and never
// cleared.
type Message struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ThreadID primitive.ObjectID `bson:"thread_id" json:"thread_id"`
	SenderID primitive.ObjectID `bson:"sender_id" json:"sender_id"`

	Content string  `bson:"content,omitempty" json:"content,omitempty"`
	Blocks  []Block `bson:"blocks,omitempty" json:"blocks,omitempty"`

	IsEdited bool `bson:"is_edited" json:"is_edited"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

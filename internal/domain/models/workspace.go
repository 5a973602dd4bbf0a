package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workspace is a named container of members and threads.
//
// Membership is a set: no duplicates, no ordering semantics. The creator
// is added as a member automatically. Workspace membership is the outer
// gate for every workspace thread: a user outside Members never sees a
// thread inside the workspace, public or not.
type Workspace struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name   string `bson:"name" json:"name"`
	NameCI string `bson:"name_ci" json:"-"` // unique, case-insensitive

	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`

	// RetentionMonths is how long messages are kept; 0 means forever.
	RetentionMonths    int        `bson:"retention_months" json:"retention_months"`
	RetentionUpdatedAt *time.Time `bson:"retention_updated_at,omitempty" json:"retention_updated_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether the given user is in the workspace member set.
func (w Workspace) HasMember(userID primitive.ObjectID) bool {
	for _, m := range w.Members {
		if m == userID {
			return true
		}
	}
	return false
}

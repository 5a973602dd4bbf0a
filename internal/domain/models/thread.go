package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread types. Workspace threads live inside a workspace and are gated
// by its membership; personal threads are standalone pair conversations.
const (
	ThreadTypeWorkspace = "workspace"
	ThreadTypePersonal  = "personal"
)

// Thread is a conversation. For workspace threads WorkspaceID is set and
// IsPublic controls visibility inside the workspace. For personal threads
// WorkspaceID is nil, Members holds exactly the two paired users, and
// MemberKey carries the sorted pair key enforced unique by index.
type Thread struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	WorkspaceID *primitive.ObjectID `bson:"workspace_id,omitempty" json:"workspace_id,omitempty"`
	Type        string              `bson:"type" json:"type"` // workspace | personal

	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	// IsPublic only has meaning on workspace threads: a public thread is
	// visible to every workspace member, a private one only to Members.
	IsPublic bool                 `bson:"is_public" json:"is_public"`
	Members  []primitive.ObjectID `bson:"members" json:"members"`

	// MemberKey is the sorted pair key of a two-member personal thread.
	// It exists only for the unique sparse index; never exposed.
	MemberKey string `bson:"member_key,omitempty" json:"-"`

	IsArchived    bool               `bson:"is_archived" json:"is_archived"`
	Pinned        bool               `bson:"pinned" json:"pinned"`
	LastMessageAt time.Time          `bson:"last_message_at" json:"last_message_at"`
	CreatedBy     primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether the given user is in the thread member set.
func (t Thread) HasMember(userID primitive.ObjectID) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// PersonalMemberKey builds the canonical pair key for a personal thread:
// the two member ids in hex, lexicographically sorted, colon-joined. The
// same pair always yields the same key regardless of argument order.
func PersonalMemberKey(a, b primitive.ObjectID) string {
	ha, hb := a.Hex(), b.Hex()
	if strings.Compare(ha, hb) > 0 {
		ha, hb = hb, ha
	}
	return ha + ":" + hb
}

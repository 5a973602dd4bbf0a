// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. Admins bypass all thread and workspace gates.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User represents an account in the chat system.
//
// NOTE:
//   - The first user ever registered is created as an approved admin.
//     Everyone after that starts as an unapproved member and must be
//     approved by an admin before they can sign in.
//   - PasswordHash is never serialized into API responses; handlers
//     return the sanitized view from the users feature instead.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"` // unique key
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // admin | member
	IsApproved   bool               `bson:"is_approved" json:"is_approved"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

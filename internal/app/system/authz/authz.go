// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	"github.com/teamonehq/teamone/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and
// a found flag. If no user is present in context or the user ID is
// malformed, it returns "visitor", "", NilObjectID, false, so callers can
// trust that ok=true means a valid, authenticated user.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.FromRequest(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in token context; fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// Principal extracts the threadpolicy principal for the current request.
func Principal(r *http.Request) (threadpolicy.Principal, bool) {
	role, _, uid, ok := UserCtx(r)
	if !ok {
		return threadpolicy.Principal{}, false
	}
	return threadpolicy.Principal{ID: uid, Role: role}, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

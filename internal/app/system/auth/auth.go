package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/teamonehq/teamone/internal/app/store/users"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CurrentUser is the authenticated identity injected into r.Context() by
// LoadTokenUser. It is loaded fresh from the users collection on every
// request so role changes and approvals take effect immediately.
type CurrentUser struct {
	ID         string
	Name       string
	Email      string
	Role       string
	IsApproved bool
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// FromRequest returns the user in context and a found flag.
func FromRequest(r *http.Request) (*CurrentUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*CurrentUser)
	return u, ok
}

// Verifier parses and validates bearer tokens, loading the token's user
// into the request context. Requests without a token pass through
// untouched; RequireSignedIn decides what is protected.
type Verifier struct {
	Tokens *TokenIssuer
	Users  *userstore.Store
	Log    *zap.Logger
}

// NewVerifier constructs a Verifier over the given database and token
// issuer.
func NewVerifier(db *mongo.Database, tokens *TokenIssuer, logger *zap.Logger) *Verifier {
	return &Verifier{
		Tokens: tokens,
		Users:  userstore.New(db),
		Log:    logger,
	}
}

// LoadTokenUser injects the user into context if a valid bearer token is
// present. An invalid or expired token is rejected immediately with 401;
// a missing token is not an error here.
func (v *Verifier) LoadTokenUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			httpjson.Err(w, v.Log, apperr.Unauthorized("invalid authorization header"))
			return
		}

		userID, err := v.Tokens.Verify(raw)
		if err != nil {
			httpjson.Err(w, v.Log, apperr.Unauthorized("invalid or expired token"))
			return
		}

		u, err := v.Users.GetByID(r.Context(), userID)
		if err != nil {
			// Token subject no longer exists; fail closed.
			httpjson.Err(w, v.Log, apperr.Unauthorized("not authorized, user not found"))
			return
		}

		cu := &CurrentUser{
			ID:         u.ID.Hex(),
			Name:       u.Name,
			Email:      u.Email,
			Role:       strings.ToLower(u.Role),
			IsApproved: u.IsApproved,
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), currentUserKey, cu)))
	})
}

// RequireSignedIn ensures there is an approved user in context. Unapproved
// accounts hold a valid credential but cannot use it yet, so they are
// rejected as unauthorized rather than forbidden.
func (v *Verifier) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := FromRequest(r)
		if !ok {
			httpjson.Err(w, v.Log, apperr.Unauthorized("not authorized, no token"))
			return
		}
		if !u.IsApproved {
			httpjson.Err(w, v.Log, apperr.Unauthorized("account pending approval"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the signed-in user carries the admin role.
func (v *Verifier) RequireAdmin(next http.Handler) http.Handler {
	return v.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := FromRequest(r)
		if u.Role != "admin" {
			httpjson.Err(w, v.Log, apperr.Forbidden("not authorized as an admin"))
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// WithTestUser injects a user into the request context, bypassing token
// verification. Test helper only.
func WithTestUser(r *http.Request, u *CurrentUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

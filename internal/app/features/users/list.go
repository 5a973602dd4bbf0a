// internal/app/features/users/list.go
package users

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// searchLimit caps how many users a directory search returns.
const searchLimit = 20

// ServeProfile handles GET /api/profile: the signed-in user, loaded
// fresh.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Err(w, h.Log, apperr.NotFound("user not found"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("loading user", err))
		return
	}

	httpjson.Write(w, http.StatusOK, viewOf(u))
}

// ServeList handles GET /api/users: every approved user, name order.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	users, err := h.Users.Find(ctx, bson.M{"is_approved": true}, opts)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("listing users", err))
		return
	}

	httpjson.Write(w, http.StatusOK, viewsOf(users))
}

// ServePending handles GET /api/users/pending: accounts awaiting
// approval, oldest first. Admin only (enforced in routes).
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	users, err := h.Users.Find(ctx, bson.M{"is_approved": false}, opts)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("listing pending users", err))
		return
	}

	httpjson.Write(w, http.StatusOK, viewsOf(users))
}

// ServeSearch handles GET /api/users/search?q=…: approved users whose
// name or email matches the query, excluding the caller. Used to pick
// partners for personal threads and workspace invitations.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httpjson.Err(w, h.Log, apperr.Validation("search query is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Queries are matched as literals against the folded fields.
	re := primitive.Regex{Pattern: regexp.QuoteMeta(text.Fold(q))}
	filter := bson.M{
		"_id":         bson.M{"$ne": uid},
		"is_approved": true,
		"$or": bson.A{
			bson.M{"name_ci": re},
			bson.M{"email_ci": re},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}}).
		SetLimit(searchLimit)
	users, err := h.Users.Find(ctx, filter, opts)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("searching users", err))
		return
	}

	httpjson.Write(w, http.StatusOK, viewsOf(users))
}

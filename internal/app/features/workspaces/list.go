// internal/app/features/workspaces/list.go
package workspaces

import (
	"context"
	"errors"
	"net/http"

	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
)

// ServeList handles GET /api/workspaces: the caller's workspaces, or
// every workspace for admins.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var err error
	var views []workspaceView
	if role == "admin" {
		all, findErr := h.Workspaces.Find(ctx, bson.M{})
		views, err = viewsOf(all), findErr
	} else {
		mine, listErr := h.Workspaces.ListForMember(ctx, uid)
		views, err = viewsOf(mine), listErr
	}
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("listing workspaces", err))
		return
	}

	httpjson.Write(w, http.StatusOK, views)
}

// ServeGet handles GET /api/workspaces/{id}: workspace detail with the
// member identities expanded. Only members and admins may look.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}

	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ws, err := h.Workspaces.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, workspacestore.ErrNotFound) {
			httpjson.Err(w, h.Log, apperr.NotFound("workspace not found"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("loading workspace", err))
		return
	}

	if role != "admin" && !ws.HasMember(uid) {
		httpjson.Err(w, h.Log, apperr.Forbidden("not a member of this workspace"))
		return
	}

	view := viewOf(ws)
	identities, err := h.Users.IdentityMap(ctx, ws.Members)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("loading members", err))
		return
	}
	for _, m := range ws.Members {
		u, found := identities[m]
		if !found {
			// Deleted accounts stay in the id list but have no identity.
			continue
		}
		view.MemberDetails = append(view.MemberDetails, memberView{
			ID:    u.ID.Hex(),
			Name:  u.Name,
			Email: u.Email,
		})
	}

	httpjson.Write(w, http.StatusOK, view)
}

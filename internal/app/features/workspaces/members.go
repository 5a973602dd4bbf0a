// internal/app/features/workspaces/members.go
package workspaces

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type addMemberRequest struct {
	UserID string `json:"user_id"`
}

// HandleAddMember handles POST /api/workspaces/{id}/members. Admin only.
// The invited account must exist and be approved. Adding a member twice
// is rejected as a validation error.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}
	if role != models.RoleAdmin {
		httpjson.Err(w, h.Log, apperr.Forbidden("admin role required"))
		return
	}

	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	var req addMemberRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}
	newMember, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Validation("invalid user_id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Workspaces.GetByID(ctx, id); err != nil {
		if errors.Is(err, workspacestore.ErrNotFound) {
			httpjson.Err(w, h.Log, apperr.NotFound("workspace not found"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("loading workspace", err))
		return
	}

	u, err := h.Users.GetByID(ctx, newMember)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Err(w, h.Log, apperr.NotFound("user not found"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("loading user", err))
		return
	}
	if !u.IsApproved {
		httpjson.Err(w, h.Log, apperr.Validation("user is not approved"))
		return
	}

	updated, err := h.Workspaces.AddMember(ctx, id, newMember)
	if err != nil {
		switch {
		case errors.Is(err, workspacestore.ErrAlreadyMember):
			httpjson.Err(w, h.Log, apperr.Validation("user already in workspace"))
		case errors.Is(err, workspacestore.ErrNotFound):
			httpjson.Err(w, h.Log, apperr.NotFound("workspace not found"))
		default:
			httpjson.Err(w, h.Log, apperr.Internal("adding member", err))
		}
		return
	}

	h.Log.Info("workspace member added",
		zap.String("workspace_id", id.Hex()),
		zap.String("user_id", newMember.Hex()),
		zap.String("added_by", uid.Hex()))

	httpjson.Write(w, http.StatusOK, viewOf(updated))
}

// internal/app/features/workspaces/create.go
package workspaces

import (
	"context"
	"errors"
	"net/http"
	"strings"

	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate handles POST /api/workspaces. Admin only. The creator is
// added to the member set automatically.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}
	if role != models.RoleAdmin {
		httpjson.Err(w, h.Log, apperr.Forbidden("admin role required"))
		return
	}

	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Err(w, h.Log, apperr.Validation("workspace name is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ws, err := h.Workspaces.Create(ctx, models.Workspace{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   uid,
	})
	if err != nil {
		if errors.Is(err, workspacestore.ErrDuplicateName) {
			httpjson.Err(w, h.Log, apperr.Validation("a workspace with this name already exists"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("creating workspace", err))
		return
	}

	h.Log.Info("workspace created",
		zap.String("workspace_id", ws.ID.Hex()),
		zap.String("created_by", uid.Hex()))

	httpjson.Write(w, http.StatusCreated, viewOf(ws))
}

// internal/app/features/workspaces/update.go
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
)

type updateRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	RetentionMonths *int   `json:"retention_months"`
}

// HandleUpdate handles PATCH /api/workspaces/{id}. Only the creator and
// admins may change a workspace. Omitted fields keep their prior value;
// a retention change also stamps when retention was last updated.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req updateRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}
	if req.RetentionMonths != nil && *req.RetentionMonths < 0 {
		httpjson.Err(w, h.Log, apperr.Validation("retention_months cannot be negative"))
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
	if role != "admin" && ws.CreatedBy != uid {
		httpjson.Err(w, h.Log, apperr.Forbidden("only the creator may update this workspace"))
		return
	}

	updated, err := h.Workspaces.Update(ctx, id,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Description), req.RetentionMonths)
	if err != nil {
		switch {
		case errors.Is(err, workspacestore.ErrDuplicateName):
			httpjson.Err(w, h.Log, apperr.Validation("a workspace with this name already exists"))
		case errors.Is(err, workspacestore.ErrNotFound):
			httpjson.Err(w, h.Log, apperr.NotFound("workspace not found"))
		default:
			httpjson.Err(w, h.Log, apperr.Internal("updating workspace", err))
		}
		return
	}

	httpjson.Write(w, http.StatusOK, viewOf(updated))
}

// internal/app/features/threads/list.go
package threads

import (
	"context"
	"errors"
	"net/http"

	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /api/threads?workspace_id=…: the workspace's
// threads visible to the caller, most recently active first. Admins see
// every thread; members see public threads plus private ones they are
// in, and only if they belong to the workspace at all.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.Principal(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}

	wsID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("workspace_id"))
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Validation("workspace_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ws, err := h.Workspaces.GetByID(ctx, wsID)
	if err != nil {
		if errors.Is(err, workspacestore.ErrNotFound) {
			httpjson.Err(w, h.Log, apperr.NotFound("workspace not found"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("loading workspace", err))
		return
	}

	if p.IsAdmin() {
		threads, err := h.Threads.ListWorkspaceAll(ctx, wsID)
		if err != nil {
			httpjson.Err(w, h.Log, apperr.Internal("listing threads", err))
			return
		}
		httpjson.Write(w, http.StatusOK, viewsOf(threads))
		return
	}

	if !ws.HasMember(p.ID) {
		httpjson.Err(w, h.Log, apperr.Forbidden("not a member of this workspace"))
		return
	}

	threads, err := h.Threads.ListWorkspace(ctx, wsID, p.ID)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("listing threads", err))
		return
	}
	httpjson.Write(w, http.StatusOK, viewsOf(threads))
}

// ServePersonal handles GET /api/threads/personal: the caller's personal
// threads, most recently active first.
func (h *Handler) ServePersonal(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.Principal(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	threads, err := h.Threads.ListPersonal(ctx, p.ID)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("listing personal threads", err))
		return
	}
	httpjson.Write(w, http.StatusOK, viewsOf(threads))
}

// internal/app/features/threads/update.go
package threads

import (
	"context"
	"net/http"
	"strings"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	threadstore "github.com/teamonehq/teamone/internal/app/store/threads"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type updateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	IsArchived  *bool    `json:"is_archived"`
	Pinned      *bool    `json:"pinned"`
	Members     []string `json:"members"`
}

// HandleUpdate handles PATCH /api/threads/{id}. Only the creator and
// admins may change a thread. Omitted fields keep their prior value. The
// member set is only replaceable on private workspace threads; public
// threads have no member roster and personal pairs are immutable.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.Principal(r)
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
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		httpjson.Err(w, h.Log, apperr.Validation("thread title cannot be empty"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	th, ws, err := threadpolicy.Authorize(ctx, h.DB, p, id)
	if err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}
	if !threadpolicy.CanModify(p, th.CreatedBy) {
		httpjson.Err(w, h.Log, apperr.Forbidden("only the creator may update this thread"))
		return
	}

	fields := threadstore.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		IsArchived:  req.IsArchived,
		Pinned:      req.Pinned,
	}

	if req.Members != nil {
		if th.Type != models.ThreadTypeWorkspace || th.IsPublic {
			httpjson.Err(w, h.Log, apperr.Validation("members can only be set on private workspace threads"))
			return
		}
		members := []primitive.ObjectID{th.CreatedBy}
		for _, hex := range req.Members {
			mid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				httpjson.Err(w, h.Log, apperr.Validation("invalid member id"))
				return
			}
			if mid == th.CreatedBy {
				continue
			}
			if ws == nil || !ws.HasMember(mid) {
				httpjson.Err(w, h.Log, apperr.Validation("thread members must belong to the workspace"))
				return
			}
			members = append(members, mid)
		}
		fields.Members = members
	}

	updated, err := h.Threads.Update(ctx, id, fields)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("updating thread", err))
		return
	}

	httpjson.Write(w, http.StatusOK, viewOf(updated))
}

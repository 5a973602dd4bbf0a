// internal/app/features/messages/delete.go
package messages

import (
	"context"
	"errors"
	"net/http"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	messagestore "github.com/teamonehq/teamone/internal/app/store/messages"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /api/messages/{id}. Only the sender and
// admins may delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, messagestore.ErrNotFound) {
			httpjson.Err(w, h.Log, apperr.NotFound("message not found"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("loading message", err))
		return
	}

	if _, _, err := threadpolicy.Authorize(ctx, h.DB, p, m.ThreadID); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}
	if !threadpolicy.CanModify(p, m.SenderID) {
		httpjson.Err(w, h.Log, apperr.Forbidden("only the sender may delete this message"))
		return
	}

	if _, err := h.Messages.Delete(ctx, id); err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("deleting message", err))
		return
	}

	h.Log.Info("message deleted",
		zap.String("message_id", id.Hex()),
		zap.String("deleted_by", p.ID.Hex()))

	httpjson.Write(w, http.StatusOK, map[string]bool{"deleted": true})
}

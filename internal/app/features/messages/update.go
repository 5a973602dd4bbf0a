// internal/app/features/messages/update.go
package messages

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	messagestore "github.com/teamonehq/teamone/internal/app/store/messages"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"github.com/teamonehq/teamone/internal/domain/models"
)

type updateRequest struct {
	Content string         `json:"content"`
	Blocks  []models.Block `json:"blocks"`
}

// HandleUpdate handles PATCH /api/messages/{id}. Only the sender and
// admins may edit. An empty field keeps the prior value; any edit marks
// the message edited, permanently.
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

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" && len(req.Blocks) == 0 {
		httpjson.Err(w, h.Log, apperr.Validation("nothing to update"))
		return
	}
	if err := validateBlocks(req.Blocks); err != nil {
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

	// The thread gate still applies: a sender who lost access to the
	// thread cannot edit their old messages in it.
	if _, _, err := threadpolicy.Authorize(ctx, h.DB, p, m.ThreadID); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}
	if !threadpolicy.CanModify(p, m.SenderID) {
		httpjson.Err(w, h.Log, apperr.Forbidden("only the sender may edit this message"))
		return
	}

	updated, err := h.Messages.Update(ctx, id, req.Content, req.Blocks)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("updating message", err))
		return
	}

	var senderName string
	if u, err := h.Users.GetByID(ctx, updated.SenderID); err == nil {
		senderName = u.Name
	}
	httpjson.Write(w, http.StatusOK, viewOf(updated, senderName))
}

// internal/app/features/messages/list.go
package messages

import (
	"context"
	"net/http"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /api/threads/{threadID}/messages: the thread's
// messages, oldest first, sender identities attached.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.Principal(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}

	threadID, err := httpjson.IDParam(r, "threadID")
	if err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	th, _, err := threadpolicy.Authorize(ctx, h.DB, p, threadID)
	if err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	msgs, err := h.Messages.ListByThread(ctx, th.ID)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("listing messages", err))
		return
	}

	senderIDs := make([]primitive.ObjectID, 0, len(msgs))
	seen := make(map[primitive.ObjectID]bool, len(msgs))
	for _, m := range msgs {
		if !seen[m.SenderID] {
			seen[m.SenderID] = true
			senderIDs = append(senderIDs, m.SenderID)
		}
	}
	identities, err := h.Users.IdentityMap(ctx, senderIDs)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("loading senders", err))
		return
	}

	views := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, viewOf(m, senderName(identities, m.SenderID)))
	}
	httpjson.Write(w, http.StatusOK, views)
}

func senderName(identities map[primitive.ObjectID]models.User, id primitive.ObjectID) string {
	if u, found := identities[id]; found {
		return u.Name
	}
	return ""
}

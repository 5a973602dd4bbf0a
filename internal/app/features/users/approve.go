// internal/app/features/users/approve.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleApprove handles POST /api/users/{id}/approve. Admin only
// (enforced in routes). Approving an already-approved user is a no-op
// and still returns the user.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Err(w, h.Log, apperr.NotFound("user not found"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("approving user", err))
		return
	}

	h.Log.Info("user approved", zap.String("user_id", u.ID.Hex()))
	httpjson.Write(w, http.StatusOK, viewOf(u))
}

// internal/app/features/threads/get.go
package threads

import (
	"context"
	"net/http"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
)

// ServeGet handles GET /api/threads/{id}. Access goes through the thread
// policy: a thread the caller cannot see is forbidden, a thread whose
// workspace is gone is not found.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
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

	th, _, err := threadpolicy.Authorize(ctx, h.DB, p, id)
	if err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, viewOf(th))
}

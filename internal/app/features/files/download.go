// internal/app/features/files/download.go
package files

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	filestore "github.com/teamonehq/teamone/internal/app/store/files"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
)

// ServeDownload handles GET /api/files/{id}. Access follows the file's
// thread: whoever can read the thread can fetch its attachments.
func (h *Handler) ServeDownload(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	f, err := h.Files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			httpjson.Err(w, h.Log, apperr.NotFound("file not found"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("loading file", err))
		return
	}

	if _, _, err := threadpolicy.Authorize(ctx, h.DB, p, f.ThreadID); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", f.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.OriginalName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}

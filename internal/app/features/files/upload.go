// internal/app/features/files/upload.go
package files

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.uber.org/zap"
)

// maxUploadBytes caps attachment size.
const maxUploadBytes = 100 << 20 // 100 MiB

// allowedExtensions is the attachment allow-list, keyed by lowercase
// extension without the dot.
var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"pdf":  true,
	"zip":  true,
	"log":  true,
	"txt":  true,
	"csv":  true,
}

// HandleUpload handles POST /api/threads/{threadID}/files: a multipart
// upload under the "file" field. The caller needs access to the thread;
// the type check is by extension against the allow-list.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httpjson.Err(w, h.Log, apperr.Validation("file exceeds the 100 MB limit or is not valid multipart"))
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Validation("a file field is required"))
		return
	}
	defer part.Close()

	name := filepath.Base(header.Filename)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if !allowedExtensions[ext] {
		httpjson.Err(w, h.Log, apperr.Validation("file type ."+ext+" is not allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	th, _, err := threadpolicy.Authorize(ctx, h.DB, p, threadID)
	if err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	data, err := io.ReadAll(part)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Validation("reading upload failed"))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mime.TypeByExtension("." + ext)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	f, err := h.Files.Create(ctx, models.File{
		OriginalName: name,
		Data:         data,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		UploaderID:   p.ID,
		ThreadID:     th.ID,
	})
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("storing file", err))
		return
	}

	h.Log.Info("file uploaded",
		zap.String("file_id", f.ID.Hex()),
		zap.String("thread_id", th.ID.Hex()),
		zap.Int64("size", f.Size))

	httpjson.Write(w, http.StatusCreated, viewOf(f))
}

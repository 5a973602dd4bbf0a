// internal/app/features/messages/send.go
package messages

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	filestore "github.com/teamonehq/teamone/internal/app/store/files"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type sendRequest struct {
	Content string         `json:"content"`
	Blocks  []models.Block `json:"blocks"`
}

// validateBlocks rejects malformed block lists before anything is stored.
func validateBlocks(blocks []models.Block) error {
	for _, b := range blocks {
		switch b.Type {
		case models.BlockTypeText, models.BlockTypeCode:
			if strings.TrimSpace(b.Content) == "" {
				return apperr.Validation(b.Type + " blocks need content")
			}
		case models.BlockTypeFile:
			if b.FileID == nil {
				return apperr.Validation("file blocks need a file_id")
			}
		default:
			return apperr.Validation("block type must be text, code, or file")
		}
	}
	return nil
}

// resolveFileBlocks stamps file blocks with the stored file's name, size,
// and MIME type so listings don't need a second lookup. The referenced
// file must exist and belong to the thread the message is posted to.
func (h *Handler) resolveFileBlocks(ctx context.Context, threadID primitive.ObjectID, blocks []models.Block) error {
	for i, b := range blocks {
		if b.Type != models.BlockTypeFile {
			continue
		}
		f, err := h.Files.GetMetaByID(ctx, *b.FileID)
		if err != nil {
			if errors.Is(err, filestore.ErrNotFound) {
				return apperr.NotFound("file not found")
			}
			return apperr.Internal("loading file", err)
		}
		if f.ThreadID != threadID {
			return apperr.Validation("file belongs to a different thread")
		}
		blocks[i].FileName = f.OriginalName
		blocks[i].FileSize = f.Size
		blocks[i].FileType = f.MimeType
	}
	return nil
}

// HandleSend handles POST /api/threads/{threadID}/messages. The sender
// is always the signed-in user; the thread's last-message time is
// touched so listings float active threads up.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
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

	var req sendRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" && len(req.Blocks) == 0 {
		httpjson.Err(w, h.Log, apperr.Validation("message needs content or blocks"))
		return
	}
	if err := validateBlocks(req.Blocks); err != nil {
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

	if err := h.resolveFileBlocks(ctx, th.ID, req.Blocks); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	m, err := h.Messages.Create(ctx, models.Message{
		ThreadID: th.ID,
		SenderID: p.ID,
		Content:  req.Content,
		Blocks:   req.Blocks,
	})
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("creating message", err))
		return
	}

	if err := h.Threads.TouchLastMessage(ctx, th.ID, m.CreatedAt); err != nil {
		// The message landed; a stale activity stamp is not worth a 500.
		h.Log.Warn("touching thread last message failed",
			zap.String("thread_id", th.ID.Hex()), zap.Error(err))
	}

	var senderName string
	if u, err := h.Users.GetByID(ctx, p.ID); err == nil {
		senderName = u.Name
	}

	httpjson.Write(w, http.StatusCreated, viewOf(m, senderName))
}

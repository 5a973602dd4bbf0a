// internal/app/features/threads/create.go
package threads

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	threadstore "github.com/teamonehq/teamone/internal/app/store/threads"
	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Type        string   `json:"type"`
	WorkspaceID string   `json:"workspace_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	IsPublic    *bool    `json:"is_public"`
	Members     []string `json:"members"`
	PartnerID   string   `json:"partner_id"`
}

// HandleCreate handles POST /api/threads. Workspace threads require
// workspace membership; personal threads are deduplicated so the same
// pair of users always lands in the same conversation.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.Principal(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}

	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	switch req.Type {
	case models.ThreadTypeWorkspace:
		h.createWorkspaceThread(w, r, p, req)
	case models.ThreadTypePersonal:
		h.createPersonalThread(w, r, p, req)
	default:
		httpjson.Err(w, h.Log, apperr.Validation("type must be workspace or personal"))
	}
}

func (h *Handler) createWorkspaceThread(w http.ResponseWriter, r *http.Request, p threadpolicy.Principal, req createRequest) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		httpjson.Err(w, h.Log, apperr.Validation("thread title is required"))
		return
	}
	wsID, err := primitive.ObjectIDFromHex(req.WorkspaceID)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Validation("invalid workspace_id"))
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
	if !p.IsAdmin() && !ws.HasMember(p.ID) {
		httpjson.Err(w, h.Log, apperr.Forbidden("not a member of this workspace"))
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	// Private threads get an explicit member set; the creator is always
	// in it. Every named member must belong to the workspace.
	var members []primitive.ObjectID
	if !isPublic {
		members = []primitive.ObjectID{p.ID}
		for _, hex := range req.Members {
			mid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				httpjson.Err(w, h.Log, apperr.Validation("invalid member id"))
				return
			}
			if mid == p.ID {
				continue
			}
			if !ws.HasMember(mid) {
				httpjson.Err(w, h.Log, apperr.Validation("thread members must belong to the workspace"))
				return
			}
			members = append(members, mid)
		}
	}

	th, err := h.Threads.Create(ctx, models.Thread{
		WorkspaceID: &wsID,
		Type:        models.ThreadTypeWorkspace,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		IsPublic:    isPublic,
		Members:     members,
		CreatedBy:   p.ID,
	})
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("creating thread", err))
		return
	}

	h.Log.Info("thread created",
		zap.String("thread_id", th.ID.Hex()),
		zap.String("workspace_id", wsID.Hex()),
		zap.Bool("public", isPublic))

	httpjson.Write(w, http.StatusCreated, viewOf(th))
}

func (h *Handler) createPersonalThread(w http.ResponseWriter, r *http.Request, p threadpolicy.Principal, req createRequest) {
	partner, err := primitive.ObjectIDFromHex(req.PartnerID)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Validation("invalid partner_id"))
		return
	}
	if partner == p.ID {
		httpjson.Err(w, h.Log, apperr.Validation("cannot start a personal thread with yourself"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	recipient, err := h.Users.GetByID(ctx, partner)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Err(w, h.Log, apperr.NotFound("user not found"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("loading user", err))
		return
	}

	// Reuse the existing pair thread when there is one; creating again
	// for the same pair must return the same conversation.
	if existing, err := h.Threads.GetPersonalPair(ctx, p.ID, partner); err == nil {
		httpjson.Write(w, http.StatusOK, viewOf(existing))
		return
	} else if !errors.Is(err, threadstore.ErrNotFound) {
		httpjson.Err(w, h.Log, apperr.Internal("loading personal thread", err))
		return
	}

	th, err := h.Threads.Create(ctx, models.Thread{
		Type:      models.ThreadTypePersonal,
		Title:     "Chat with " + recipient.Name,
		Members:   []primitive.ObjectID{p.ID, partner},
		CreatedBy: p.ID,
	})
	if err != nil {
		// Lost the race to a concurrent create: the pair thread now
		// exists, return it.
		if errors.Is(err, threadstore.ErrDuplicatePair) {
			existing, lookupErr := h.Threads.GetPersonalPair(ctx, p.ID, partner)
			if lookupErr != nil {
				httpjson.Err(w, h.Log, apperr.Internal("loading personal thread", lookupErr))
				return
			}
			httpjson.Write(w, http.StatusOK, viewOf(existing))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("creating personal thread", err))
		return
	}

	h.Log.Info("personal thread created",
		zap.String("thread_id", th.ID.Hex()),
		zap.String("created_by", p.ID.Hex()))

	httpjson.Write(w, http.StatusCreated, viewOf(th))
}

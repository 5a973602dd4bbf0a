// internal/app/features/search/search.go
package search

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/teamonehq/teamone/internal/app/policy/threadpolicy"
	threadstore "github.com/teamonehq/teamone/internal/app/store/threads"
	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/authz"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	searchsys "github.com/teamonehq/teamone/internal/app/system/search"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseParams translates the query string into search params plus the
// optional workspace narrowing filter (applied after the fetch, against
// each candidate's thread).
func parseParams(r *http.Request) (searchsys.Params, *primitive.ObjectID, error) {
	q := r.URL.Query()

	p := searchsys.Params{
		Query:    strings.TrimSpace(q.Get("q")),
		Language: strings.TrimSpace(q.Get("language")),
		UseRegex: q.Get("regex") == "true",
	}

	if hex := q.Get("thread_id"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return p, nil, apperr.Validation("invalid thread_id")
		}
		p.ThreadID = &id
	}
	if hex := q.Get("user_id"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return p, nil, apperr.Validation("invalid user_id")
		}
		p.UserID = &id
	}
	if raw := q.Get("start"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return p, nil, apperr.Validation("start must be RFC 3339")
		}
		p.Start = &ts
	}
	if raw := q.Get("end"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return p, nil, apperr.Validation("end must be RFC 3339")
		}
		p.End = &ts
	}

	var wsID *primitive.ObjectID
	if hex := q.Get("workspace_id"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return p, nil, apperr.Validation("invalid workspace_id")
		}
		wsID = &id
	}
	return p, wsID, nil
}

// Serve handles GET /api/search.
//
// The Mongo filter only narrows candidates; every hit is re-checked
// against the thread policy for THIS caller before it is returned. A
// candidate whose thread or workspace has disappeared is silently
// skipped. At most 100 newest matches are fetched, so the response may
// hold fewer hits than exist overall.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.Principal(r)
	if !ok {
		httpjson.Err(w, h.Log, apperr.Unauthorized("not authorized"))
		return
	}

	params, wsFilter, err := parseParams(r)
	if err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}
	filter, err := searchsys.BuildFilter(params)
	if err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	candidates, err := h.Messages.Search(ctx, filter, searchsys.Limit)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("searching messages", err))
		return
	}

	// Per-request caches: one thread/workspace fetch each, however many
	// candidates reference them.
	threadCache := make(map[primitive.ObjectID]*models.Thread)
	wsCache := make(map[primitive.ObjectID]*models.Workspace)

	results := make([]resultView, 0, len(candidates))
	senderIDs := make([]primitive.ObjectID, 0, len(candidates))
	seenSenders := make(map[primitive.ObjectID]bool)

	for _, m := range candidates {
		th, found := threadCache[m.ThreadID]
		if !found {
			loaded, err := h.Threads.GetByID(ctx, m.ThreadID)
			switch {
			case err == nil:
				th = &loaded
			case errors.Is(err, threadstore.ErrNotFound):
				th = nil // orphaned message, skip below
			default:
				httpjson.Err(w, h.Log, apperr.Internal("loading thread", err))
				return
			}
			threadCache[m.ThreadID] = th
		}
		if th == nil {
			continue
		}

		var ws *models.Workspace
		if th.Type == models.ThreadTypeWorkspace {
			if th.WorkspaceID == nil {
				continue
			}
			ws, found = wsCache[*th.WorkspaceID]
			if !found {
				loaded, err := h.Workspaces.GetByID(ctx, *th.WorkspaceID)
				switch {
				case err == nil:
					ws = &loaded
				case errors.Is(err, workspacestore.ErrNotFound):
					ws = nil
				default:
					httpjson.Err(w, h.Log, apperr.Internal("loading workspace", err))
					return
				}
				wsCache[*th.WorkspaceID] = ws
			}
			if ws == nil {
				continue
			}
		}

		if wsFilter != nil && (th.WorkspaceID == nil || *th.WorkspaceID != *wsFilter) {
			continue
		}
		if !threadpolicy.CanAccessThread(p, *th, ws) {
			continue
		}

		view := resultView{
			ID:          m.ID.Hex(),
			ThreadID:    th.ID.Hex(),
			ThreadTitle: th.Title,
			ThreadType:  th.Type,
			SenderID:    m.SenderID.Hex(),
			Content:     m.Content,
			Blocks:      m.Blocks,
			CreatedAt:   m.CreatedAt,
		}
		if th.WorkspaceID != nil {
			view.WorkspaceID = th.WorkspaceID.Hex()
		}
		results = append(results, view)

		if !seenSenders[m.SenderID] {
			seenSenders[m.SenderID] = true
			senderIDs = append(senderIDs, m.SenderID)
		}
	}

	identities, err := h.Users.IdentityMap(ctx, senderIDs)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("loading senders", err))
		return
	}
	for i := range results {
		id, _ := primitive.ObjectIDFromHex(results[i].SenderID)
		if u, found := identities[id]; found {
			results[i].SenderName = u.Name
		}
	}

	httpjson.Write(w, http.StatusOK, searchResponse{Count: len(results), Results: results})
}

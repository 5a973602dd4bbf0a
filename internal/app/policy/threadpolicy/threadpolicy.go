// Package threadpolicy is the single authorization decision point for
// threads and everything hanging off them (messages, files, search
// results). Every read/write path routes through CanAccessThread or
// CanModify; no call site re-derives membership logic.
//
// The access model is a strict two-tier gate:
//
//  1. Admins can access everything.
//  2. Personal threads: only the two paired members.
//  3. Workspace threads: workspace membership is necessary but not
//     sufficient. Inside the workspace, a thread is visible when it is
//     public or the user is in its member set. A non-member of the
//     workspace is denied regardless of thread visibility.
//
// CanAccessThread and CanModify are pure functions over already-fetched
// entities; Resolve does the lookups and maps missing parents to
// not-found instead of letting a dangling reference grant access.
package threadpolicy

import (
	"context"
	"errors"

	threadstore "github.com/teamonehq/teamone/internal/app/store/threads"
	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Principal is the identity a decision is made for.
type Principal struct {
	ID   primitive.ObjectID
	Role string // "admin" | "member"
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// CanAccessThread reports whether the principal may read or post in the
// given thread. For workspace threads the caller must pass the thread's
// workspace; a nil workspace denies (the resolver surfaces that case as
// not-found before this function is reached).
func CanAccessThread(p Principal, th models.Thread, ws *models.Workspace) bool {
	if p.IsAdmin() {
		return true
	}

	if th.Type == models.ThreadTypePersonal {
		return th.HasMember(p.ID)
	}

	// Workspace thread: the workspace gate comes first and is absolute.
	if ws == nil || !ws.HasMember(p.ID) {
		return false
	}
	return th.IsPublic || th.HasMember(p.ID)
}

// CanModify reports whether the principal may mutate a resource owned by
// ownerID (message sender, thread creator).
func CanModify(p Principal, ownerID primitive.ObjectID) bool {
	return p.IsAdmin() || p.ID == ownerID
}

// Resolve fetches a thread and, for workspace threads, its workspace.
// A missing thread, a workspace thread without a workspace reference, or
// a dangling workspace reference all surface as NOT_FOUND. No access
// decision is made here.
func Resolve(ctx context.Context, db *mongo.Database, threadID primitive.ObjectID) (models.Thread, *models.Workspace, error) {
	th, err := threadstore.New(db).GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, threadstore.ErrNotFound) {
			return models.Thread{}, nil, apperr.NotFound("thread not found")
		}
		return models.Thread{}, nil, apperr.Internal("loading thread", err)
	}

	if th.Type == models.ThreadTypePersonal {
		return th, nil, nil
	}

	// Orphaned workspace references are a hard not-found, never a grant.
	if th.WorkspaceID == nil {
		return models.Thread{}, nil, apperr.NotFound("workspace not found")
	}
	ws, err := workspacestore.New(db).GetByID(ctx, *th.WorkspaceID)
	if err != nil {
		if errors.Is(err, workspacestore.ErrNotFound) {
			return models.Thread{}, nil, apperr.NotFound("workspace not found")
		}
		return models.Thread{}, nil, apperr.Internal("loading workspace", err)
	}
	return th, &ws, nil
}

// Authorize resolves the thread and applies CanAccessThread, returning
// the fetched entities on success. This is the shared entry point for
// message, file, and thread reads/writes.
func Authorize(ctx context.Context, db *mongo.Database, p Principal, threadID primitive.ObjectID) (models.Thread, *models.Workspace, error) {
	th, ws, err := Resolve(ctx, db, threadID)
	if err != nil {
		return models.Thread{}, nil, err
	}
	if !CanAccessThread(p, th, ws) {
		return models.Thread{}, nil, apperr.Forbidden("not authorized to access this thread")
	}
	return th, ws, nil
}

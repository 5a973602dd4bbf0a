// internal/app/features/threads/handler.go
package threads

import (
	"time"

	threadstore "github.com/teamonehq/teamone/internal/app/store/threads"
	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the threads feature.
type Handler struct {
	DB         *mongo.Database
	Threads    *threadstore.Store
	Workspaces *workspacestore.Store
	Users      *userstore.Store
	Log        *zap.Logger
}

// NewHandler constructs a threads Handler. It is called from the
// bootstrap BuildHandler function.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Threads:    threadstore.New(db),
		Workspaces: workspacestore.New(db),
		Users:      userstore.New(db),
		Log:        logger,
	}
}

// threadView is the JSON shape for a thread.
type threadView struct {
	ID            string    `json:"id"`
	WorkspaceID   string    `json:"workspace_id,omitempty"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	IsPublic      bool      `json:"is_public"`
	Members       []string  `json:"members"`
	IsArchived    bool      `json:"is_archived"`
	Pinned        bool      `json:"pinned"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func viewOf(th models.Thread) threadView {
	members := make([]string, 0, len(th.Members))
	for _, m := range th.Members {
		members = append(members, m.Hex())
	}
	v := threadView{
		ID:            th.ID.Hex(),
		Type:          th.Type,
		Title:         th.Title,
		Description:   th.Description,
		IsPublic:      th.IsPublic,
		Members:       members,
		IsArchived:    th.IsArchived,
		Pinned:        th.Pinned,
		LastMessageAt: th.LastMessageAt,
		CreatedBy:     th.CreatedBy.Hex(),
		CreatedAt:     th.CreatedAt,
	}
	if th.WorkspaceID != nil {
		v.WorkspaceID = th.WorkspaceID.Hex()
	}
	return v
}

func viewsOf(threads []models.Thread) []threadView {
	views := make([]threadView, 0, len(threads))
	for _, th := range threads {
		views = append(views, viewOf(th))
	}
	return views
}

// internal/app/features/search/handler.go
package search

import (
	"time"

	messagestore "github.com/teamonehq/teamone/internal/app/store/messages"
	threadstore "github.com/teamonehq/teamone/internal/app/store/threads"
	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for message search.
type Handler struct {
	DB         *mongo.Database
	Messages   *messagestore.Store
	Threads    *threadstore.Store
	Workspaces *workspacestore.Store
	Users      *userstore.Store
	Log        *zap.Logger
}

// NewHandler constructs a search Handler. It is called from the
// bootstrap BuildHandler function.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Messages:   messagestore.New(db),
		Threads:    threadstore.New(db),
		Workspaces: workspacestore.New(db),
		Users:      userstore.New(db),
		Log:        logger,
	}
}

// resultView is one search hit: the matching message with enough thread
// context to jump to it.
type resultView struct {
	ID          string         `json:"id"`
	ThreadID    string         `json:"thread_id"`
	ThreadTitle string         `json:"thread_title,omitempty"`
	ThreadType  string         `json:"thread_type"`
	WorkspaceID string         `json:"workspace_id,omitempty"`
	SenderID    string         `json:"sender_id"`
	SenderName  string         `json:"sender_name,omitempty"`
	Content     string         `json:"content,omitempty"`
	Blocks      []models.Block `json:"blocks,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// searchResponse is the JSON envelope for GET /api/search.
type searchResponse struct {
	Count   int          `json:"count"`
	Results []resultView `json:"results"`
}

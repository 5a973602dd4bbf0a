// internal/app/features/messages/handler.go
package messages

import (
	"time"

	filestore "github.com/teamonehq/teamone/internal/app/store/files"
	messagestore "github.com/teamonehq/teamone/internal/app/store/messages"
	threadstore "github.com/teamonehq/teamone/internal/app/store/threads"
	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the messages feature.
type Handler struct {
	DB       *mongo.Database
	Messages *messagestore.Store
	Threads  *threadstore.Store
	Users    *userstore.Store
	Files    *filestore.Store
	Log      *zap.Logger
}

// NewHandler constructs a messages Handler. It is called from the
// bootstrap BuildHandler function.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Messages: messagestore.New(db),
		Threads:  threadstore.New(db),
		Users:    userstore.New(db),
		Files:    filestore.New(db),
		Log:      logger,
	}
}

// messageView is the JSON shape for a message, sender identity attached.
type messageView struct {
	ID         string         `json:"id"`
	ThreadID   string         `json:"thread_id"`
	SenderID   string         `json:"sender_id"`
	SenderName string         `json:"sender_name,omitempty"`
	Content    string         `json:"content,omitempty"`
	Blocks     []models.Block `json:"blocks,omitempty"`
	IsEdited   bool           `json:"is_edited"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func viewOf(m models.Message, senderName string) messageView {
	return messageView{
		ID:         m.ID.Hex(),
		ThreadID:   m.ThreadID.Hex(),
		SenderID:   m.SenderID.Hex(),
		SenderName: senderName,
		Content:    m.Content,
		Blocks:     m.Blocks,
		IsEdited:   m.IsEdited,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

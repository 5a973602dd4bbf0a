// internal/app/features/files/handler.go
package files

import (
	"time"

	filestore "github.com/teamonehq/teamone/internal/app/store/files"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for file attachments.
type Handler struct {
	DB    *mongo.Database
	Files *filestore.Store
	Log   *zap.Logger
}

// NewHandler constructs a files Handler. It is called from the bootstrap
// BuildHandler function.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Files: filestore.New(db),
		Log:   logger,
	}
}

// fileView is the metadata shape returned after upload. The blob itself
// only travels through the download endpoint.
type fileView struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	UploaderID   string    `json:"uploader_id"`
	ThreadID     string    `json:"thread_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func viewOf(f models.File) fileView {
	return fileView{
		ID:           f.ID.Hex(),
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		UploaderID:   f.UploaderID.Hex(),
		ThreadID:     f.ThreadID.Hex(),
		CreatedAt:    f.CreatedAt,
	}
}

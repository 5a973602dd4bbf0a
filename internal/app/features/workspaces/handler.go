// internal/app/features/workspaces/handler.go
package workspaces

import (
	"time"

	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the workspaces feature.
type Handler struct {
	DB         *mongo.Database
	Workspaces *workspacestore.Store
	Users      *userstore.Store
	Log        *zap.Logger
}

// NewHandler constructs a workspaces Handler. It is called from the
// bootstrap BuildHandler function.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Workspaces: workspacestore.New(db),
		Users:      userstore.New(db),
		Log:        logger,
	}
}

// memberView is the member identity attached to workspace details.
type memberView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// workspaceView is the JSON shape for a workspace. Details carry the
// member identities; listings leave MemberDetails empty.
type workspaceView struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	CreatedBy       string       `json:"created_by"`
	Members         []string     `json:"members"`
	MemberDetails   []memberView `json:"member_details,omitempty"`
	RetentionMonths int          `json:"retention_months"`
	CreatedAt       time.Time    `json:"created_at"`
}

func viewOf(ws models.Workspace) workspaceView {
	members := make([]string, 0, len(ws.Members))
	for _, m := range ws.Members {
		members = append(members, m.Hex())
	}
	return workspaceView{
		ID:              ws.ID.Hex(),
		Name:            ws.Name,
		Description:     ws.Description,
		CreatedBy:       ws.CreatedBy.Hex(),
		Members:         members,
		RetentionMonths: ws.RetentionMonths,
		CreatedAt:       ws.CreatedAt,
	}
}

func viewsOf(workspaces []models.Workspace) []workspaceView {
	views := make([]workspaceView, 0, len(workspaces))
	for _, ws := range workspaces {
		views = append(views, viewOf(ws))
	}
	return views
}

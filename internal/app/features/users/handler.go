// internal/app/features/users/handler.go
package users

import (
	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	"github.com/teamonehq/teamone/internal/app/system/auth"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the users feature:
// registration, login, profiles, and the admin approval flow.
type Handler struct {
	DB     *mongo.Database
	Users  *userstore.Store
	Tokens *auth.TokenIssuer
	Log    *zap.Logger
}

// NewHandler constructs a users Handler. It is called from the bootstrap
// BuildHandler function, where the app's DB, token issuer, and logger are
// already initialized.
func NewHandler(db *mongo.Database, tokens *auth.TokenIssuer, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Users:  userstore.New(db),
		Tokens: tokens,
		Log:    logger,
	}
}

// userView is the sanitized user shape returned by every endpoint. The
// password hash never leaves the store layer.
type userView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsApproved bool   `json:"is_approved"`
}

func viewOf(u models.User) userView {
	return userView{
		ID:         u.ID.Hex(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsApproved: u.IsApproved,
	}
}

func viewsOf(users []models.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, viewOf(u))
	}
	return views
}

// authResponse is returned by register and login: the sanitized user plus
// a bearer token.
type authResponse struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

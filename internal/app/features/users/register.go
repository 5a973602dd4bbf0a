// internal/app/features/users/register.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	validate "github.com/dalemusser/waffle/pantry/validate"
	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and returns a bearer token.
//
// The very first account in the system becomes an approved admin; every
// later account starts as an unapproved member and cannot use its token
// until an admin approves it.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.Name == "":
		httpjson.Err(w, h.Log, apperr.Validation("name is required"))
		return
	case req.Email == "" || validate.Var(req.Email, "required,email") != nil:
		httpjson.Err(w, h.Log, apperr.Validation("a valid email is required"))
		return
	case len(req.Password) < 8:
		httpjson.Err(w, h.Log, apperr.Validation("password must be at least 8 characters"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("hashing password", err))
		return
	}

	// First registrant bootstraps the system as an approved admin.
	count, err := h.Users.Count(ctx, nil)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("counting users", err))
		return
	}

	u := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleMember,
	}
	if count == 0 {
		u.Role = models.RoleAdmin
		u.IsApproved = true
	}

	created, err := h.Users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Err(w, h.Log, apperr.Validation("a user with this email already exists"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("creating user", err))
		return
	}

	token, err := h.Tokens.Issue(created.ID)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("issuing token", err))
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", created.ID.Hex()),
		zap.String("role", created.Role),
		zap.Bool("approved", created.IsApproved))

	httpjson.Write(w, http.StatusCreated, authResponse{User: viewOf(created), Token: token})
}

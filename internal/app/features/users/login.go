// internal/app/features/users/login.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/app/system/httpjson"
	"github.com/teamonehq/teamone/internal/app/system/timeouts"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and returns a fresh bearer token.
// Unknown emails and wrong passwords get the same response so the
// endpoint cannot be used to probe for accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Err(w, h.Log, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpjson.Err(w, h.Log, apperr.Validation("email and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Err(w, h.Log, apperr.Unauthorized("invalid email or password"))
			return
		}
		httpjson.Err(w, h.Log, apperr.Internal("loading user", err))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		httpjson.Err(w, h.Log, apperr.Unauthorized("invalid email or password"))
		return
	}

	if !u.IsApproved {
		httpjson.Err(w, h.Log, apperr.Unauthorized("account pending approval"))
		return
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		httpjson.Err(w, h.Log, apperr.Internal("issuing token", err))
		return
	}

	httpjson.Write(w, http.StatusOK, authResponse{User: viewOf(u), Token: token})
}

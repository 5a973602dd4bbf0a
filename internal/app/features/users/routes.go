// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"
	"github.com/teamonehq/teamone/internal/app/system/auth"
)

// PublicRoutes returns the unauthenticated account endpoints. Mounted at
// the API root so register and login work without a token.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	return r
}

// Routes returns the authenticated user endpoints, mounted under /users.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/search", h.ServeSearch)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(v.RequireAdmin)

		ar.Get("/pending", h.ServePending)
		ar.Post("/{id}/approve", h.HandleApprove)
	})

	return r
}

// internal/app/features/workspaces/routes.go
package workspaces

import (
	"github.com/go-chi/chi/v5"
	"github.com/teamonehq/teamone/internal/app/system/auth"
)

func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
		pr.Patch("/{id}", h.HandleUpdate)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(v.RequireAdmin)

		ar.Post("/", h.HandleCreate)
		ar.Post("/{id}/members", h.HandleAddMember)
	})

	return r
}

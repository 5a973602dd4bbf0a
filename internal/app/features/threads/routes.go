// internal/app/features/threads/routes.go
package threads

import (
	"github.com/go-chi/chi/v5"
	"github.com/teamonehq/teamone/internal/app/system/auth"
)

func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Get("/personal", h.ServePersonal)
		pr.Get("/{id}", h.ServeGet)
		pr.Patch("/{id}", h.HandleUpdate)
	})

	return r
}

// internal/app/features/search/routes.go
package search

import (
	"github.com/go-chi/chi/v5"
	"github.com/teamonehq/teamone/internal/app/system/auth"
)

func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireSignedIn)

		pr.Get("/", h.Serve)
	})

	return r
}

// internal/app/features/messages/routes.go
package messages

import (
	"github.com/go-chi/chi/v5"
	"github.com/teamonehq/teamone/internal/app/system/auth"
)

// ThreadRoutes returns the per-thread message endpoints. Mounted under
// /api/threads/{threadID}/messages so handlers read threadID from the
// route context.
func ThreadRoutes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleSend)
	})

	return r
}

// Routes returns the per-message endpoints, mounted under /api/messages.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireSignedIn)

		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

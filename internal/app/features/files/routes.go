// internal/app/features/files/routes.go
package files

import (
	"github.com/go-chi/chi/v5"
	"github.com/teamonehq/teamone/internal/app/system/auth"
)

// ThreadRoutes returns the per-thread upload endpoint. Mounted under
// /api/threads/{threadID}/files.
func ThreadRoutes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireSignedIn)

		pr.Post("/", h.HandleUpload)
	})

	return r
}

// Routes returns the download endpoint, mounted under /api/files.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireSignedIn)

		pr.Get("/{id}", h.ServeDownload)
	})

	return r
}

// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	filesfeature "github.com/teamonehq/teamone/internal/app/features/files"
	healthfeature "github.com/teamonehq/teamone/internal/app/features/health"
	messagesfeature "github.com/teamonehq/teamone/internal/app/features/messages"
	searchfeature "github.com/teamonehq/teamone/internal/app/features/search"
	threadsfeature "github.com/teamonehq/teamone/internal/app/features/threads"
	usersfeature "github.com/teamonehq/teamone/internal/app/features/users"
	workspacesfeature "github.com/teamonehq/teamone/internal/app/features/workspaces"
	"github.com/teamonehq/teamone/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// TeamOne is a JSON API: every route lives under /api except the health
// check. Authentication is a bearer token issued at register/login; the
// token middleware loads the current user into the request context and
// feature routers enforce signed-in or admin requirements per route.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.TeamOneMongoDatabase

	tokens := auth.NewTokenIssuer(appCfg.JWTSecret, appCfg.JWTExpiry)
	verifier := auth.NewVerifier(db, tokens, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the bearer-token user into context if
	// a valid token is present. Handlers read it via authz.UserCtx.
	r.Use(verifier.LoadTokenUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.TeamOneMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	usersHandler := usersfeature.NewHandler(db, tokens, logger)
	workspacesHandler := workspacesfeature.NewHandler(db, logger)
	threadsHandler := threadsfeature.NewHandler(db, logger)
	messagesHandler := messagesfeature.NewHandler(db, logger)
	filesHandler := filesfeature.NewHandler(db, logger)
	searchHandler := searchfeature.NewHandler(db, logger)

	r.Route("/api", func(api chi.Router) {
		// Registration and login are the only unauthenticated endpoints.
		api.Mount("/", usersfeature.PublicRoutes(usersHandler))

		api.Group(func(pr chi.Router) {
			pr.Use(verifier.RequireSignedIn)
			pr.Get("/profile", usersHandler.ServeProfile)
		})

		api.Mount("/users", usersfeature.Routes(usersHandler, verifier))
		api.Mount("/workspaces", workspacesfeature.Routes(workspacesHandler, verifier))
		api.Mount("/threads", threadsfeature.Routes(threadsHandler, verifier))
		api.Mount("/threads/{threadID}/messages", messagesfeature.ThreadRoutes(messagesHandler, verifier))
		api.Mount("/threads/{threadID}/files", filesfeature.ThreadRoutes(filesHandler, verifier))
		api.Mount("/messages", messagesfeature.Routes(messagesHandler, verifier))
		api.Mount("/files", filesfeature.Routes(filesHandler, verifier))
		api.Mount("/search", searchfeature.Routes(searchHandler, verifier))
	})

	return r, nil
}

package http

import (
	"net/http"

	"github.com/blakestevenson/moviedetails/internal/http/handlers"
	"github.com/blakestevenson/moviedetails/internal/httputil"
	"github.com/blakestevenson/moviedetails/internal/vault"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	runner handlers.CommandRunner,
	workspace *vault.Vault,
	settings handlers.SettingsEditor,
	allowedOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(RecoverMiddleware(logger))
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.RealIP)
	r.Use(CORSMiddleware(allowedOrigins))

	// Handlers
	commandHandler := handlers.NewCommandHandler(runner, logger)
	documentHandler := handlers.NewDocumentHandler(workspace, logger)
	settingsHandler := handlers.NewSettingsHandler(settings, logger)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/plugins", commandHandler.ListPlugins)

		r.Route("/commands", func(r chi.Router) {
			r.Get("/", commandHandler.ListCommands)
			r.Post("/{id}", commandHandler.ExecuteCommand)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", documentHandler.ListDocuments)
			r.Get("/active", documentHandler.GetActive)
			r.Put("/active", documentHandler.OpenDocument)
			r.Delete("/active", documentHandler.CloseDocument)
		})

		r.Get("/notices", documentHandler.ListNotices)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.GetSettings)
			r.Put("/", settingsHandler.UpdateSettings)
		})
	})

	return r
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/blakestevenson/moviedetails/internal/httputil"
	"github.com/blakestevenson/moviedetails/internal/movie"
	"github.com/blakestevenson/moviedetails/internal/moviedetails"
	"github.com/blakestevenson/moviedetails/internal/omdb"
	"github.com/blakestevenson/moviedetails/internal/plugins"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CommandRunner lists and executes plugin commands
type CommandRunner interface {
	ListPlugins() []*plugins.LoadedPlugin
	Commands() []plugins.Command
	Execute(ctx context.Context, id string, args map[string]string) error
}

// CommandHandler handles plugin and command HTTP requests
type CommandHandler struct {
	runner CommandRunner
	logger *zap.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(runner CommandRunner, logger *zap.Logger) *CommandHandler {
	return &CommandHandler{
		runner: runner,
		logger: logger,
	}
}

// ListPlugins handles GET /api/plugins
func (h *CommandHandler) ListPlugins(w http.ResponseWriter, r *http.Request) {
	loaded := h.runner.ListPlugins()

	out := make([]map[string]interface{}, 0, len(loaded))
	for _, lp := range loaded {
		out = append(out, map[string]interface{}{
			"id":          lp.Meta.ID,
			"name":        lp.Meta.Name,
			"version":     lp.Meta.Version,
			"description": lp.Meta.Description,
			"commands":    lp.Commands,
		})
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"plugins": out,
	})
}

// ListCommands handles GET /api/commands
func (h *CommandHandler) ListCommands(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"commands": h.runner.Commands(),
	})
}

// ExecuteCommand handles POST /api/commands/{id}
func (h *CommandHandler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Args map[string]string `json:"args"`
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}

	ctx, notices := plugins.CollectNotices(r.Context())

	if err := h.runner.Execute(ctx, id, body.Args); err != nil {
		status := commandErrorStatus(err)
		if status >= http.StatusInternalServerError {
			httputil.LogError(h.logger, err, "command failed", zap.String("command_id", id))
		}
		httputil.RespondError(w, status, err, lastNotice(notices()))
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"command": id,
		"notice":  lastNotice(notices()),
	})
}

func lastNotice(notices []string) string {
	if len(notices) == 0 {
		return ""
	}
	return notices[len(notices)-1]
}

// commandErrorStatus maps command errors onto HTTP statuses
func commandErrorStatus(err error) int {
	var statusErr *omdb.StatusError

	switch {
	case errors.Is(err, plugins.ErrCommandNotFound):
		return http.StatusNotFound
	case errors.Is(err, plugins.ErrNoActiveDocument):
		return http.StatusConflict
	case errors.Is(err, plugins.ErrMissingArgument), errors.Is(err, movie.ErrEmptyLookupKey):
		return http.StatusBadRequest
	case errors.Is(err, moviedetails.ErrAPIKeyNotConfigured):
		return http.StatusPreconditionFailed
	case errors.Is(err, movie.ErrLookupFailed):
		return http.StatusNotFound
	case errors.As(err, &statusErr), errors.Is(err, omdb.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

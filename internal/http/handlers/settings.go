package handlers

import (
	"context"
	"net/http"

	"github.com/blakestevenson/moviedetails/internal/httputil"
	"github.com/blakestevenson/moviedetails/internal/moviedetails"
	"go.uber.org/zap"
)

// SettingsEditor is the plugin's settings surface
type SettingsEditor interface {
	Settings() moviedetails.Settings
	UpdateAPIKey(ctx context.Context, key string) error
}

// SettingsHandler handles plugin settings HTTP requests
type SettingsHandler struct {
	editor SettingsEditor
	logger *zap.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(editor SettingsEditor, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		editor: editor,
		logger: logger,
	}
}

// GetSettings handles GET /api/settings. The key itself is never echoed.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"api_key_configured": h.editor.Settings().Configured(),
	})
}

// UpdateSettings handles PUT /api/settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		APIKey *string `json:"api_key"`
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if body.APIKey == nil {
		httputil.RespondErrorMessage(w, http.StatusBadRequest, "api_key is required")
		return
	}

	if err := h.editor.UpdateAPIKey(r.Context(), *body.APIKey); err != nil {
		httputil.LogError(h.logger, err, "failed to save settings")
		httputil.RespondErrorMessage(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"api_key_configured": h.editor.Settings().Configured(),
	})
}

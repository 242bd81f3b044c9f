package handlers

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/blakestevenson/moviedetails/internal/httputil"
	"github.com/blakestevenson/moviedetails/internal/vault"
	"go.uber.org/zap"
)

// Workspace is the document host behind the HTTP surface
type Workspace interface {
	List() ([]string, error)
	OpenDocument(relPath string) (*vault.Document, error)
	CloseDocument()
	Active() (*vault.Document, bool)
	Notices() []vault.Notice
}

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	workspace Workspace
	logger    *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(workspace Workspace, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		workspace: workspace,
		logger:    logger,
	}
}

// ListDocuments handles GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	notes, err := h.workspace.List()
	if err != nil {
		httputil.LogError(h.logger, err, "failed to list documents")
		httputil.RespondErrorMessage(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": notes,
	})
}

// GetActive handles GET /api/documents/active
func (h *DocumentHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.workspace.Active()
	if !ok {
		httputil.RespondErrorMessage(w, http.StatusNotFound, "no active document")
		return
	}

	content, err := doc.Content()
	if err != nil {
		httputil.LogError(h.logger, err, "failed to read document", zap.String("path", doc.Path()))
		httputil.RespondErrorMessage(w, http.StatusInternalServerError, "failed to read document")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, documentResponse(doc, content))
}

// OpenDocument handles PUT /api/documents/active
func (h *DocumentHandler) OpenDocument(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if body.Path == "" {
		httputil.RespondErrorMessage(w, http.StatusBadRequest, "path is required")
		return
	}

	doc, err := h.workspace.OpenDocument(body.Path)
	switch {
	case errors.Is(err, vault.ErrOutsideVault), errors.Is(err, vault.ErrNotMarkdown):
		httputil.RespondError(w, http.StatusBadRequest, err, "invalid document path")
		return
	case errors.Is(err, fs.ErrNotExist):
		httputil.RespondErrorMessage(w, http.StatusNotFound, "document not found")
		return
	case err != nil:
		httputil.LogError(h.logger, err, "failed to open document", zap.String("path", body.Path))
		httputil.RespondErrorMessage(w, http.StatusInternalServerError, "failed to open document")
		return
	}

	content, err := doc.Content()
	if err != nil {
		httputil.LogError(h.logger, err, "failed to read document", zap.String("path", doc.Path()))
		httputil.RespondErrorMessage(w, http.StatusInternalServerError, "failed to read document")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, documentResponse(doc, content))
}

// CloseDocument handles DELETE /api/documents/active
func (h *DocumentHandler) CloseDocument(w http.ResponseWriter, r *http.Request) {
	h.workspace.CloseDocument()
	w.WriteHeader(http.StatusNoContent)
}

// ListNotices handles GET /api/notices
func (h *DocumentHandler) ListNotices(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"notices": h.workspace.Notices(),
	})
}

func documentResponse(doc *vault.Document, content string) map[string]interface{} {
	return map[string]interface{}{
		"path":      doc.Path(),
		"base_name": doc.BaseName(),
		"cursor":    doc.Cursor(),
		"content":   content,
	}
}

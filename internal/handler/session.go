package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
)

// SessionHandler handles session state and generation HTTP requests
type SessionHandler struct {
	session services.SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session services.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		session: session,
		logger:  logger,
	}
}

// State reports the current project and active document
// GET /api/session
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	projectID, documentID := h.session.State()
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"project_id":  projectID,
		"document_id": documentID,
	})
}

// OpenProject makes a project current
// POST /api/session/projects/{id}/open
func (h *SessionHandler) OpenProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	project, err := h.session.OpenProject(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// OpenDocument makes a document active
// POST /api/session/documents/{id}/open
func (h *SessionHandler) OpenDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, err := h.session.OpenDocument(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// CloseDocument clears the active document
// POST /api/session/documents/close
func (h *SessionHandler) CloseDocument(w http.ResponseWriter, r *http.Request) {
	h.session.CloseDocument(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// PreviewContext shows exactly what a generation call would send
// GET /api/session/context
func (h *SessionHandler) PreviewContext(w http.ResponseWriter, r *http.Request) {
	entries, err := h.session.PreviewContext(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}

// Generate runs one drafting action against the active document.
// A stale result (the user switched or deleted the document while the
// call was in flight) comes back with stale=true and empty text.
// POST /api/session/generate
func (h *SessionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req services.GenerateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.session.Generate(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

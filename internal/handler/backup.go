package handler

import (
	"io"
	"log/slog"
	"net/http"

	"inkwell/internal/httputil"
	"inkwell/internal/service/session"
)

// maxBackupSize caps the accepted import payload.
const maxBackupSize = 50 << 20 // 50MB

// BackupHandler handles backup export and import HTTP requests
type BackupHandler struct {
	controller *session.Controller
	logger     *slog.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(controller *session.Controller, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{
		controller: controller,
		logger:     logger,
	}
}

// Export streams the full application state as a plaintext JSON download
// GET /api/backup
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.controller.ExportBackup(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="inkwell-backup.json"`)
	w.Write(data)
}

// Import replaces the application state with an uploaded backup
// POST /api/backup
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupSize))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read backup payload")
		return
	}

	if err := h.controller.ImportBackup(r.Context(), data); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// Persister saves the current application state. Persist writes
// immediately; Schedule coalesces a burst of edits into one debounced
// save, where only the most recent reset fires.
type Persister interface {
	Persist(ctx context.Context) error
	Schedule()
}

// SessionService is the top-level orchestration: it tracks the current
// project and active document, applies settings changes, and drives
// generation actions through the assembler, prompt builder and
// completion client.
type SessionService interface {
	// OpenProject makes a project current. Clears the active document
	// if it belongs to a different project.
	OpenProject(ctx context.Context, projectID string) (*models.Project, error)

	// OpenDocument makes a document active; its project must be the
	// current project.
	OpenDocument(ctx context.Context, documentID string) (*models.Document, error)

	// CloseDocument clears the active document.
	CloseDocument(ctx context.Context)

	// State reports the current project and active document IDs.
	State() (projectID, documentID string)

	// Settings returns the current settings.
	Settings() *models.Settings

	// UpdateSettings applies a partial settings update and persists.
	// Template overrides are accepted only when both templates are
	// non-empty after trimming.
	UpdateSettings(ctx context.Context, req *UpdateSettingsRequest) (*models.Settings, error)

	// PreviewContext shows exactly what a generation call for the
	// active document would send.
	PreviewContext(ctx context.Context) ([]models.ContextEntry, error)

	// Generate runs one drafting action against the active document.
	Generate(ctx context.Context, req *GenerateRequest) (*models.GenerationResult, error)
}

// GenerateRequest is one user-triggered drafting action.
type GenerateRequest struct {
	Kind         models.GenerationKind `json:"kind"`
	Model        string                `json:"model,omitempty"` // falls back to last used
	Temperature  *float64              `json:"temperature,omitempty"`
	MaxTokens    *int                  `json:"max_tokens,omitempty"`
	ContextNotes string                `json:"context_notes,omitempty"`
	CursorOffset int                   `json:"cursor_offset,omitempty"` // continue-from-cursor splice point
	Selection    string                `json:"selection,omitempty"`     // improve-selection input, verbatim
}

// UpdateSettingsRequest is a partial settings update; only provided
// fields change.
type UpdateSettingsRequest struct {
	Theme            *string                  `json:"theme,omitempty"`
	FontSize         *int                     `json:"font_size,omitempty"`
	AutosaveInterval *int                     `json:"autosave_interval_ms,omitempty"`
	FavoriteModels   []string                 `json:"favorite_models,omitempty"` // replaces the set
	Templates        *models.TemplateOverride `json:"templates,omitempty"`
	ClearTemplates   bool                     `json:"clear_templates,omitempty"`
	LastModel        *string                  `json:"last_model,omitempty"`
	LastTemperature  *float64                 `json:"last_temperature,omitempty"`
	LastMaxTokens    *int                     `json:"last_max_tokens,omitempty"`
}

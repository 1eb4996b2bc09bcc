package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// WorkspaceService owns project and document lifecycle: CRUD, ordering,
// and the enabled flag. Every mutation is persisted before it returns.
type WorkspaceService interface {
	// ListProjects returns all projects, most recently updated first.
	ListProjects(ctx context.Context) []models.Project

	// CreateProject creates a new project.
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)

	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, id string) (*models.Project, error)

	// UpdateProject applies a partial update to a project.
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject removes a project and cascades delete to every
	// document referencing it.
	DeleteProject(ctx context.Context, id string) error

	// ListDocuments returns a project's documents ascending by order;
	// each is guaranteed to carry a defined order.
	ListDocuments(ctx context.Context, projectID string) ([]models.Document, error)

	// CreateDocument creates a new document at the end of its project.
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*models.Document, error)

	// UpdateDocument applies a partial update; content changes recompute
	// the cached word count.
	UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) (*models.Document, error)

	// DeleteDocument removes a document; if it was the active one the
	// session's active-document state is cleared.
	DeleteDocument(ctx context.Context, id string) error

	// Reorder moves one document relative to another within a project
	// and renumbers the project's documents to a dense 0..n-1 sequence.
	// A cross-project or missing pair is a reported no-op.
	Reorder(ctx context.Context, req *ReorderRequest) ([]models.Document, error)

	// ToggleEnabled flips whether a document participates in AI
	// context. No ordering side effects.
	ToggleEnabled(ctx context.Context, id string) (*models.Document, error)
}

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Genre       string `json:"genre,omitempty"`
	Description string `json:"description,omitempty"`
	TargetWords *int   `json:"target_words,omitempty"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Title       *string `json:"title,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Description *string `json:"description,omitempty"`
	TargetWords *int    `json:"target_words,omitempty"`
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	ProjectID string              `json:"project_id"`
	Title     string              `json:"title"`
	Type      models.DocumentType `json:"type"`
	Content   string              `json:"content"`
	Enabled   *bool               `json:"enabled,omitempty"` // defaults to true
}

// UpdateDocumentRequest represents a partial document update
type UpdateDocumentRequest struct {
	Title   *string              `json:"title,omitempty"`
	Type    *models.DocumentType `json:"type,omitempty"`
	Content *string              `json:"content,omitempty"`
}

// ReorderRequest moves MovedID immediately before or after TargetID.
// InsertBefore is a UI-level decision (pointer above or below the
// target card's vertical midpoint); the store is agnostic to pixels.
type ReorderRequest struct {
	ProjectID    string `json:"project_id"`
	MovedID      string `json:"moved_id"`
	TargetID     string `json:"target_id"`
	InsertBefore bool   `json:"insert_before"`
}

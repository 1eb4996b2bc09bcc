package workspace

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
)

// ListDocuments returns a project's documents ascending by order. The
// store repairs any document missing an order to its insertion index;
// when that happens the repaired state is persisted.
func (s *Service) ListDocuments(ctx context.Context, projectID string) ([]models.Document, error) {
	if s.store.GetProject(projectID) == nil {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}

	docs := s.store.Documents(projectID)

	// A repair is visible as a previously-negative order; always cheap
	// to persist here, and listing after import is exactly when repairs
	// happen.
	s.persister.Schedule()

	return docs, nil
}

// CreateDocument creates a new document at the end of its project.
func (s *Service) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validateCreateDocumentRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if s.store.GetProject(req.ProjectID) == nil {
		return nil, fmt.Errorf("project %s: %w", req.ProjectID, domain.ErrNotFound)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	now := time.Now()
	doc := &models.Document{
		ID:        uuid.NewString(),
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Type:      req.Type,
		Content:   req.Content,
		Enabled:   enabled,
		Order:     len(s.store.Documents(req.ProjectID)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.PutDocument(doc)

	if err := s.persister.Persist(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"project_id", doc.ProjectID,
		"title", doc.Title,
		"type", doc.Type,
		"order", doc.Order,
	)

	return s.store.GetDocument(doc.ID), nil
}

// GetDocument retrieves a document by ID
func (s *Service) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc := s.store.GetDocument(id)
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

// UpdateDocument applies a partial update. Content updates go through
// the debounced autosave path since the editor fires them in bursts;
// metadata updates persist immediately.
func (s *Service) UpdateDocument(ctx context.Context, id string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	doc := s.store.GetDocument(id)
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	contentOnly := req.Content != nil && req.Title == nil && req.Type == nil

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validation.Validate(title, validation.Required, validation.Length(1, config.MaxDocumentTitleLength)); err != nil {
			return nil, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
		}
		doc.Title = title
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown document type %q", domain.ErrValidation, *req.Type)
		}
		doc.Type = *req.Type
	}
	if req.Content != nil {
		doc.Content = *req.Content
	}
	doc.UpdatedAt = time.Now()

	// word count cache is recomputed inside PutDocument
	s.store.PutDocument(doc)

	if contentOnly {
		s.persister.Schedule()
	} else if err := s.persister.Persist(ctx); err != nil {
		return nil, err
	}

	return s.store.GetDocument(id), nil
}

// DeleteDocument removes a document and clears it from the session's
// active state if it was open.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if !s.store.DeleteDocument(id) {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	s.active.DocumentDeleted(id)

	if err := s.persister.Persist(ctx); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id)
	return nil
}

// Reorder moves one document relative to another and renumbers the
// project densely. Returns the project's documents in their new order.
func (s *Service) Reorder(ctx context.Context, req *services.ReorderRequest) ([]models.Document, error) {
	if err := s.validateReorderRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if !s.store.Reorder(req.ProjectID, req.MovedID, req.TargetID, req.InsertBefore) {
		// Cross-project pairs and vanished documents are reported as a
		// no-op, not an internal error.
		return nil, fmt.Errorf("%w: reorder is a no-op for %s -> %s", domain.ErrValidation, req.MovedID, req.TargetID)
	}

	if err := s.persister.Persist(ctx); err != nil {
		return nil, err
	}

	s.logger.Debug("documents reordered",
		"project_id", req.ProjectID,
		"moved_id", req.MovedID,
		"target_id", req.TargetID,
		"insert_before", req.InsertBefore,
	)

	return s.store.Documents(req.ProjectID), nil
}

// ToggleEnabled flips a document's participation in AI context.
func (s *Service) ToggleEnabled(ctx context.Context, id string) (*models.Document, error) {
	if _, ok := s.store.ToggleEnabled(id); !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	if err := s.persister.Persist(ctx); err != nil {
		return nil, err
	}

	return s.store.GetDocument(id), nil
}

func (s *Service) validateCreateDocumentRequest(req *services.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxDocumentTitleLength),
		),
		validation.Field(&req.Type,
			validation.Required,
			validation.By(func(value interface{}) error {
				if t, ok := value.(models.DocumentType); ok && !t.Valid() {
					return fmt.Errorf("unknown document type %q", t)
				}
				return nil
			}),
		),
	)
}

func (s *Service) validateReorderRequest(req *services.ReorderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.MovedID, validation.Required),
		validation.Field(&req.TargetID, validation.Required),
	)
}

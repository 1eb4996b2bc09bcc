package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/store"
)

// ActiveState is notified when records the session may be holding open
// are deleted, so active/current state never dangles.
type ActiveState interface {
	DocumentDeleted(id string)
	ProjectDeleted(id string)
}

// Service implements services.WorkspaceService over the in-memory
// store. Every mutation persists the full state before returning.
type Service struct {
	store     *store.Store
	persister services.Persister
	active    ActiveState
	logger    *slog.Logger
}

// New creates a workspace service.
func New(st *store.Store, persister services.Persister, active ActiveState, logger *slog.Logger) services.WorkspaceService {
	return &Service{
		store:     st,
		persister: persister,
		active:    active,
		logger:    logger,
	}
}

// ListProjects returns all projects, most recently updated first.
func (s *Service) ListProjects(ctx context.Context) []models.Project {
	return s.store.Projects()
}

// CreateProject creates a new project
func (s *Service) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Genre = strings.TrimSpace(req.Genre)
	if err := s.validateCreateProjectRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	project := &models.Project{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Genre:       req.Genre,
		Description: req.Description,
		TargetWords: req.TargetWords,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.store.PutProject(project)

	if err := s.persister.Persist(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"title", project.Title,
		"genre", project.Genre,
	)

	return project, nil
}

// GetProject retrieves a project by ID
func (s *Service) GetProject(ctx context.Context, id string) (*models.Project, error) {
	project := s.store.GetProject(id)
	if project == nil {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return project, nil
}

// UpdateProject applies a partial update to a project
func (s *Service) UpdateProject(ctx context.Context, id string, req *services.UpdateProjectRequest) (*models.Project, error) {
	project := s.store.GetProject(id)
	if project == nil {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validation.Validate(title, validation.Required, validation.Length(1, config.MaxProjectTitleLength)); err != nil {
			return nil, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
		}
		project.Title = title
	}
	if req.Genre != nil {
		project.Genre = strings.TrimSpace(*req.Genre)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.TargetWords != nil {
		project.TargetWords = req.TargetWords
	}
	project.UpdatedAt = time.Now()

	s.store.PutProject(project)

	if err := s.persister.Persist(ctx); err != nil {
		return nil, err
	}

	return s.store.GetProject(id), nil
}

// DeleteProject removes a project and cascades delete to its documents.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	removed, ok := s.store.DeleteProject(id)
	if !ok {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	for _, docID := range removed {
		s.active.DocumentDeleted(docID)
	}
	s.active.ProjectDeleted(id)

	if err := s.persister.Persist(ctx); err != nil {
		return err
	}

	s.logger.Info("project deleted",
		"id", id,
		"cascaded_documents", len(removed),
	)

	return nil
}

func (s *Service) validateCreateProjectRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxProjectTitleLength),
		),
		validation.Field(&req.Genre,
			validation.Length(0, config.MaxGenreLength),
		),
	)
}

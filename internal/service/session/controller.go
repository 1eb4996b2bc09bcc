// Package session is the top-level orchestration: it owns the settings,
// tracks the current project and active document, and wires user
// actions to the store, the assembler, the prompt builder, the
// completion client and the persistence gateway. There is no ambient
// global state; everything the session knows lives on the Controller.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/persistence"
	"inkwell/internal/store"
)

// Controller implements services.SessionService and services.Persister.
type Controller struct {
	mu sync.Mutex

	store    *store.Store
	gateway  *persistence.Gateway
	settings *models.Settings

	assembler services.ContextAssembler
	prompts   services.PromptBuilder
	client    services.CompletionClient

	currentProject string
	activeDocument string

	defaultModel string
	saveTimer    *time.Timer
	logger       *slog.Logger
}

// NewController creates a session controller around previously loaded
// state. Generation collaborators are attached afterwards with Wire,
// because the prompt builder reads settings through the controller.
func NewController(st *store.Store, gateway *persistence.Gateway, settings *models.Settings, defaultModel string, logger *slog.Logger) *Controller {
	if settings == nil {
		settings = models.DefaultSettings()
	}
	return &Controller{
		store:        st,
		gateway:      gateway,
		settings:     settings,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

// Wire attaches the generation pipeline.
func (c *Controller) Wire(assembler services.ContextAssembler, prompts services.PromptBuilder, client services.CompletionClient) {
	c.assembler = assembler
	c.prompts = prompts
	c.client = client
}

var _ services.SessionService = (*Controller)(nil)
var _ services.Persister = (*Controller)(nil)

// OpenProject makes a project current and remembers it for next
// startup. An active document from a different project is closed.
func (c *Controller) OpenProject(ctx context.Context, projectID string) (*models.Project, error) {
	project := c.store.GetProject(projectID)
	if project == nil {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}

	c.mu.Lock()
	c.currentProject = projectID
	if doc := c.store.GetDocument(c.activeDocument); doc == nil || doc.ProjectID != projectID {
		c.activeDocument = ""
	}
	c.settings.LastProjectID = projectID
	c.settings.LastDocumentID = c.activeDocument
	c.settings.UpdatedAt = time.Now()
	c.mu.Unlock()

	if err := c.Persist(ctx); err != nil {
		return nil, err
	}
	return project, nil
}

// OpenDocument makes a document active. Opening a document also opens
// its owning project, which keeps the invariant that the active
// document always belongs to the current project.
func (c *Controller) OpenDocument(ctx context.Context, documentID string) (*models.Document, error) {
	doc := c.store.GetDocument(documentID)
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	c.mu.Lock()
	c.currentProject = doc.ProjectID
	c.activeDocument = doc.ID
	c.settings.LastProjectID = doc.ProjectID
	c.settings.LastDocumentID = doc.ID
	c.settings.UpdatedAt = time.Now()
	c.mu.Unlock()

	if err := c.Persist(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

// CloseDocument clears the active document.
func (c *Controller) CloseDocument(ctx context.Context) {
	c.mu.Lock()
	c.activeDocument = ""
	c.settings.LastDocumentID = ""
	c.mu.Unlock()

	c.Schedule()
}

// State reports the current project and active document IDs.
func (c *Controller) State() (projectID, documentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentProject, c.activeDocument
}

// DocumentDeleted clears the active document if it was just removed.
func (c *Controller) DocumentDeleted(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeDocument == id {
		c.activeDocument = ""
		c.settings.LastDocumentID = ""
	}
}

// ProjectDeleted clears the current project if it was just removed.
func (c *Controller) ProjectDeleted(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentProject == id {
		c.currentProject = ""
		c.settings.LastProjectID = ""
	}
}

// PreviewContext shows exactly what a generation call for the active
// document would send. Because assembly is deterministic for a fixed
// store state, the preview and the real call are byte-identical.
func (c *Controller) PreviewContext(ctx context.Context) ([]models.ContextEntry, error) {
	c.mu.Lock()
	projectID, docID := c.currentProject, c.activeDocument
	c.mu.Unlock()

	if projectID == "" {
		return nil, fmt.Errorf("%w: no project is open", domain.ErrValidation)
	}
	return c.assembler.Assemble(ctx, projectID, docID)
}

// RestoreLastOpened reopens the project and document from the previous
// session, silently skipping whichever no longer exists.
func (c *Controller) RestoreLastOpened() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p := c.store.GetProject(c.settings.LastProjectID); p != nil {
		c.currentProject = p.ID
		if d := c.store.GetDocument(c.settings.LastDocumentID); d != nil && d.ProjectID == p.ID {
			c.activeDocument = d.ID
		}
	}
}

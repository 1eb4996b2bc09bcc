// Package assembly builds the AI prompt context out of a project's
// enabled documents.
package assembly

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/store"
	"inkwell/internal/utils"
)

// Service implements services.ContextAssembler.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a context assembler.
func New(st *store.Store, logger *slog.Logger) services.ContextAssembler {
	return &Service{
		store:  st,
		logger: logger,
	}
}

// Assemble returns one entry per enabled document in the project,
// excluding excludeDocID, ascending by order. No qualifying documents
// is an empty slice, not an error. For a fixed store state the result
// is byte-identical across runs.
func (s *Service) Assemble(ctx context.Context, projectID, excludeDocID string) ([]models.ContextEntry, error) {
	if s.store.GetProject(projectID) == nil {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}

	docs := s.store.Documents(projectID)

	entries := make([]models.ContextEntry, 0, len(docs))
	for _, doc := range docs {
		if !doc.Enabled || doc.ID == excludeDocID {
			continue
		}
		entries = append(entries, models.ContextEntry{
			Type:      doc.Type,
			Title:     doc.Title,
			PlainText: utils.PlainText(doc.Content),
		})
	}

	s.logger.Debug("context assembled",
		"project_id", projectID,
		"excluded", excludeDocID,
		"entries", len(entries),
	)

	return entries, nil
}

// Render joins assembled entries into the {DOCUMENTS_CONTEXT} block.
// One labeled section per document, in assembly order.
func (s *Service) Render(entries []models.ContextEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s: %s]\n%s", typeLabel(e.Type), e.Title, e.PlainText)
	}
	return b.String()
}

// typeLabel renders a document type as a section heading.
func typeLabel(t models.DocumentType) string {
	switch t {
	case models.TypeWritingStyle:
		return "Writing Style"
	case models.TypeWorldbuild:
		return "Worldbuilding"
	default:
		// single-word types capitalize cleanly
		name := string(t)
		if name == "" {
			return "Other"
		}
		return strings.ToUpper(name[:1]) + name[1:]
	}
}

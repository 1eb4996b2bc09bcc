package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// ContextAssembler produces the AI prompt context from a project's
// enabled documents. The output is deterministic for a fixed store
// state: re-running it without intervening mutation yields byte-
// identical output, which is what lets the preview feature show exactly
// what a real generation call would send.
type ContextAssembler interface {
	// Assemble returns one entry per enabled document in the project,
	// excluding excludeDocID, ascending by order. An empty project or
	// one with nothing enabled yields an empty slice, not an error.
	Assemble(ctx context.Context, projectID, excludeDocID string) ([]models.ContextEntry, error)

	// Render joins assembled entries into the single text block that
	// fills the {DOCUMENTS_CONTEXT} placeholder.
	Render(entries []models.ContextEntry) string
}

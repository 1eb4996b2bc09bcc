package session

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/utils"
)

// Generate runs one drafting action against the active document. The
// request is tagged with its target document before the network call;
// if the editor has moved on by the time the response returns, the
// result is marked stale and its text is dropped instead of being
// written into whichever document happens to be open.
func (c *Controller) Generate(ctx context.Context, req *services.GenerateRequest) (*models.GenerationResult, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown generation kind %q", domain.ErrValidation, req.Kind)
	}
	if req.Kind == models.KindImprove && strings.TrimSpace(req.Selection) == "" {
		return nil, fmt.Errorf("%w: improve requires a selection", domain.ErrValidation)
	}

	c.mu.Lock()
	projectID, docID := c.currentProject, c.activeDocument
	model := req.Model
	if model == "" {
		model = c.settings.LastModel
	}
	if model == "" {
		model = c.defaultModel
	}
	temperature := c.settings.LastTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := c.settings.LastMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	c.mu.Unlock()

	if projectID == "" || docID == "" {
		return nil, fmt.Errorf("%w: no document is open", domain.ErrValidation)
	}
	if maxTokens <= 0 || maxTokens > config.MaxGenerationTokens {
		return nil, fmt.Errorf("%w: token budget must be between 1 and %d", domain.ErrValidation, config.MaxGenerationTokens)
	}

	doc := c.store.GetDocument(docID)
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}

	system, user, err := c.buildPrompts(ctx, req, projectID, doc, maxTokens)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	start := time.Now()

	c.logger.Info("generation started",
		"request_id", requestID,
		"kind", req.Kind,
		"document_id", docID,
		"model", model,
		"max_tokens", maxTokens,
	)

	// The controller lock is not held across the network call; the
	// user keeps editing, deleting, even switching documents while the
	// request is in flight. That is exactly why the result is tagged.
	text, err := c.client.Complete(ctx, &services.CompletionRequest{
		Model:       model,
		System:      system,
		User:        user,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, err
	}

	result := &models.GenerationResult{
		RequestID:  requestID,
		DocumentID: docID,
		Kind:       req.Kind,
		Text:       text,
		Offset:     req.CursorOffset,
	}

	c.mu.Lock()
	if c.activeDocument != docID || c.store.GetDocument(docID) == nil {
		result.Stale = true
		result.Text = ""
	} else {
		c.settings.LastModel = model
		c.settings.LastTemperature = temperature
		c.settings.LastMaxTokens = maxTokens
		c.settings.UpdatedAt = time.Now()
	}
	c.mu.Unlock()

	if result.Stale {
		c.logger.Warn("generation result discarded as stale",
			"request_id", requestID,
			"document_id", docID,
		)
	} else {
		c.Schedule()
		c.logger.Info("generation finished",
			"request_id", requestID,
			"kind", req.Kind,
			"duration_ms", time.Since(start).Milliseconds(),
			"chars", len(text),
		)
	}

	return result, nil
}

// buildPrompts produces the system/user pair for each generation kind.
// Continue-from-end and continue-from-cursor send identical requests;
// only where the editor splices the result differs.
func (c *Controller) buildPrompts(ctx context.Context, req *services.GenerateRequest, projectID string, doc *models.Document, maxTokens int) (system, user string, err error) {
	draft := utils.PlainText(doc.Content)

	switch req.Kind {
	case models.KindContinueEnd, models.KindContinueCursor:
		entries, err := c.assembler.Assemble(ctx, projectID, doc.ID)
		if err != nil {
			return "", "", err
		}
		documentsContext := c.assembler.Render(entries)
		system = c.prompts.BuildSystemPrompt(maxTokens, req.ContextNotes, documentsContext)
		user = c.prompts.BuildUserPrompt(tailOf(draft, config.ContinueRecentWindow))
		return system, user, nil

	case models.KindImprove:
		return c.prompts.ImproveSystemPrompt(), req.Selection, nil

	case models.KindBrainstorm:
		system, user = c.prompts.BrainstormPrompts(tailOf(draft, config.BrainstormRecentWindow))
		return system, user, nil
	}

	return "", "", fmt.Errorf("%w: unknown generation kind %q", domain.ErrValidation, req.Kind)
}

// tailOf returns the trailing window of text, at most n bytes aligned
// to a rune boundary, so a request never carries the full document.
func tailOf(text string, n int) string {
	if len(text) <= n {
		return text
	}
	cut := len(text) - n
	for cut < len(text) && !utf8.RuneStart(text[cut]) {
		cut++
	}
	return text[cut:]
}

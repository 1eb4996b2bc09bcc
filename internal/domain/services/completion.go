package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// CompletionRequest is one chat-style generation call: a system/user
// message pair plus generation parameters.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// CompletionClient talks to the remote completion endpoint. No retries
// are attempted; a failure is surfaced immediately as domain.AuthError,
// domain.NetworkError or domain.APIError and the caller re-enables
// whatever it disabled.
type CompletionClient interface {
	// Complete submits the message pair and returns the generated text.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)

	// ListModels returns the models the endpoint offers, with context
	// window, pricing and free/paid flag.
	ListModels(ctx context.Context) ([]models.ModelInfo, error)
}

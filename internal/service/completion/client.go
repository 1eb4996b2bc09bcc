// Package completion talks to the remote model endpoint. One contract,
// four call sites: continue-from-end, continue-from-cursor,
// improve-selection and brainstorm all reuse Complete with different
// prompt content.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"inkwell/internal/domain"
	"inkwell/internal/domain/services"
)

// Client implements services.CompletionClient against an
// OpenRouter-compatible endpoint. Retries are disabled: a failure is
// surfaced immediately and the caller decides what to tell the user.
type Client struct {
	api        openai.Client
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a completion client. The API key may be empty; in
// that case every Complete call fails fast with an AuthError before
// any request is made.
func NewClient(apiKey, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
		logger:     logger,
	}
}

var _ services.CompletionClient = (*Client)(nil)

// Complete submits the system/user message pair and returns the
// generated text.
func (c *Client) Complete(ctx context.Context, req *services.CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", &domain.AuthError{Message: "no API key configured"}
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	})
	if err != nil {
		return "", c.mapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &domain.APIError{Status: http.StatusOK, Message: "empty response from model"}
	}

	c.logger.Debug("completion finished",
		"model", req.Model,
		"max_tokens", req.MaxTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return resp.Choices[0].Message.Content, nil
}

// mapError converts SDK failures into the domain taxonomy. 401 and 403
// mean the credential is the problem; any other non-success status is
// an API error carrying the upstream code; everything else never got
// an HTTP response and is a network failure.
func (c *Client) mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &domain.AuthError{Message: "completion endpoint rejected the API key"}
		default:
			return &domain.APIError{
				Status:  apiErr.StatusCode,
				Message: apiErr.Message,
			}
		}
	}
	return &domain.NetworkError{Message: fmt.Sprintf("completion request failed: %v", err)}
}

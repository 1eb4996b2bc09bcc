package completion

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"inkwell/internal/domain"
	"inkwell/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func completionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func testRequest() *services.CompletionRequest {
	return &services.CompletionRequest{
		Model:       "vendor/model",
		System:      "system prompt",
		User:        "user prompt",
		Temperature: 0.8,
		MaxTokens:   500,
	}
}

func TestComplete_Success(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{
		"id": "gen-1",
		"choices": [{"message": {"role": "assistant", "content": "She kept walking."}}]
	}`)
	defer srv.Close()

	c := NewClient("test-key", srv.URL, testLogger())
	text, err := c.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "She kept walking." {
		t.Errorf("expected completion text, got %q", text)
	}
}

func TestComplete_NoAPIKeyFailsFast(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, testLogger())
	_, err := c.Complete(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrAuth) {
		t.Errorf("expected ErrAuth, got %v", err)
	}
	if called {
		t.Error("no request should be made without an API key")
	}
}

func TestComplete_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantErr    error
		wantStatus int
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrAuth, 0},
		{"forbidden", http.StatusForbidden, domain.ErrAuth, 0},
		{"rate limited", http.StatusTooManyRequests, nil, http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError, nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := completionServer(t, tt.status, `{"error": {"message": "upstream says no"}}`)
			defer srv.Close()

			c := NewClient("test-key", srv.URL, testLogger())
			_, err := c.Complete(context.Background(), testRequest())
			if err == nil {
				t.Fatal("expected an error")
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			var apiErr *domain.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("expected upstream status %d, got %d", tt.wantStatus, apiErr.Status)
			}
		})
	}
}

func TestComplete_UnreachableEndpointIsNetworkError(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "{}")
	srv.Close() // connection refused from here on

	c := NewClient("test-key", srv.URL, testLogger())
	_, err := c.Complete(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestListModels_ParsesEndpointResponse(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{
		"data": [
			{
				"id": "vendor/paid-model",
				"name": "Paid Model",
				"context_length": 128000,
				"pricing": {"prompt": "0.000003", "completion": "0.000015"}
			},
			{
				"id": "vendor/free-model:free",
				"name": "Free Model",
				"context_length": 32000,
				"pricing": {"prompt": "0", "completion": "0"}
			}
		]
	}`)
	defer srv.Close()

	c := NewClient("test-key", srv.URL, testLogger())
	list, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 models, got %d", len(list))
	}

	paid := list[0]
	if paid.ID != "vendor/paid-model" || paid.ContextWindow != 128000 {
		t.Errorf("unexpected model: %+v", paid)
	}
	// per-token decimal strings become USD per 1M tokens
	if paid.PromptPrice != 3.0 || paid.CompletePrice != 15.0 {
		t.Errorf("expected per-million pricing, got %v/%v", paid.PromptPrice, paid.CompletePrice)
	}
	if paid.Free {
		t.Error("paid model flagged free")
	}

	if !list[1].Free {
		t.Error("free model not flagged")
	}
}

func TestListModels_FallsBackToEmbeddedCatalog(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "{}")
	srv.Close()

	c := NewClient("test-key", srv.URL, testLogger())
	list, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("expected embedded catalog instead of error, got %v", err)
	}
	if len(list) == 0 {
		t.Fatal("expected embedded catalog entries")
	}
	for _, m := range list {
		if m.ID == "" || m.Name == "" {
			t.Errorf("embedded catalog entry incomplete: %+v", m)
		}
	}
}

func TestPerMillion(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0.000003", 3.0},
		{"0", 0},
		{"", 0},
		{"not-a-number", 0},
	}

	for _, tt := range tests {
		if got := perMillion(tt.in); got != tt.want {
			t.Errorf("perMillion(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

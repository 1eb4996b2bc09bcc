package completion

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain/models"
)

//go:embed catalog/*.yaml
var catalogFiles embed.FS

// modelsResponse is the wire shape of the endpoint's model list.
// Pricing comes back as per-token decimal strings.
type modelsResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		ContextLength int    `json:"context_length"`
		Pricing       struct {
			Prompt     string `json:"prompt"`
			Completion string `json:"completion"`
		} `json:"pricing"`
	} `json:"data"`
}

// embeddedCatalog mirrors catalog/models.yaml.
type embeddedCatalog struct {
	Models []struct {
		ID            string  `yaml:"id"`
		Name          string  `yaml:"name"`
		ContextWindow int     `yaml:"context_window"`
		PromptPrice   float64 `yaml:"prompt_price"`
		CompletePrice float64 `yaml:"completion_price"`
		Free          bool    `yaml:"free"`
	} `yaml:"models"`
}

var (
	fallbackOnce    sync.Once
	fallbackModels  []models.ModelInfo
	fallbackLoadErr error
)

// ListModels fetches the endpoint's model list: id, display name,
// context window, pricing and free/paid flag. When the endpoint is
// unreachable the embedded catalog is served instead so the model
// picker keeps working offline.
func (c *Client) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	list, err := c.fetchModels(ctx)
	if err != nil {
		c.logger.Warn("model list unavailable, serving embedded catalog", "error", err)
		return loadFallbackCatalog()
	}
	return list, nil
}

func (c *Client) fetchModels(ctx context.Context) ([]models.ModelInfo, error) {
	url := strings.TrimSuffix(c.baseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model list returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed modelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse model list: %w", err)
	}

	out := make([]models.ModelInfo, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		promptPrice := perMillion(m.Pricing.Prompt)
		completePrice := perMillion(m.Pricing.Completion)
		out = append(out, models.ModelInfo{
			ID:            m.ID,
			Name:          m.Name,
			ContextWindow: m.ContextLength,
			PromptPrice:   promptPrice,
			CompletePrice: completePrice,
			Free:          strings.HasSuffix(m.ID, ":free") || (promptPrice == 0 && completePrice == 0),
		})
	}
	return out, nil
}

// perMillion converts a per-token decimal price string to USD per 1M
// tokens. Unparseable prices count as zero.
func perMillion(perToken string) float64 {
	v, err := strconv.ParseFloat(perToken, 64)
	if err != nil {
		return 0
	}
	return v * 1_000_000
}

func loadFallbackCatalog() ([]models.ModelInfo, error) {
	fallbackOnce.Do(func() {
		data, err := catalogFiles.ReadFile("catalog/models.yaml")
		if err != nil {
			fallbackLoadErr = fmt.Errorf("read embedded catalog: %w", err)
			return
		}
		var cat embeddedCatalog
		if err := yaml.Unmarshal(data, &cat); err != nil {
			fallbackLoadErr = fmt.Errorf("parse embedded catalog: %w", err)
			return
		}
		for _, m := range cat.Models {
			fallbackModels = append(fallbackModels, models.ModelInfo{
				ID:            m.ID,
				Name:          m.Name,
				ContextWindow: m.ContextWindow,
				PromptPrice:   m.PromptPrice,
				CompletePrice: m.CompletePrice,
				Free:          m.Free,
			})
		}
	})
	return fallbackModels, fallbackLoadErr
}

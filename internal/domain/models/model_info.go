package models

// ModelInfo describes one model offered by the completion endpoint.
type ModelInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ContextWindow int     `json:"context_window"`
	PromptPrice   float64 `json:"prompt_price"`     // USD per 1M input tokens
	CompletePrice float64 `json:"completion_price"` // USD per 1M output tokens
	Free          bool    `json:"free"`
	Favorite      bool    `json:"favorite"`
}

package models

import (
	"strings"
	"time"
)

// TemplateOverride is a user-supplied replacement for the built-in
// system/user prompt template pair. An override is accepted only if both
// templates are non-empty after trimming; partial overrides are rejected
// at the settings boundary.
type TemplateOverride struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// Usable reports whether the override can replace the built-in defaults.
func (t *TemplateOverride) Usable() bool {
	if t == nil {
		return false
	}
	return strings.TrimSpace(t.System) != "" && strings.TrimSpace(t.User) != ""
}

// Settings holds session-spanning user preferences. Loaded once at
// startup, mutated throughout the session, persisted on every change
// that matters to continuity.
type Settings struct {
	Theme            string            `json:"theme"`
	FontSize         int               `json:"font_size"`
	AutosaveInterval time.Duration     `json:"autosave_interval"`
	LastProjectID    string            `json:"last_project_id,omitempty"`
	LastDocumentID   string            `json:"last_document_id,omitempty"`
	FavoriteModels   map[string]bool   `json:"favorite_models,omitempty"` // set semantics
	Templates        *TemplateOverride `json:"templates,omitempty"`
	LastModel        string            `json:"last_model,omitempty"`
	LastTemperature  float64           `json:"last_temperature"`
	LastMaxTokens    int               `json:"last_max_tokens"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() *Settings {
	return &Settings{
		Theme:            "dark",
		FontSize:         16,
		AutosaveInterval: 2 * time.Second,
		FavoriteModels:   map[string]bool{},
		LastTemperature:  0.8,
		LastMaxTokens:    500,
		UpdatedAt:        time.Now(),
	}
}

// FavoriteList returns the favorited model IDs; order is irrelevant.
func (s *Settings) FavoriteList() []string {
	ids := make([]string, 0, len(s.FavoriteModels))
	for id, ok := range s.FavoriteModels {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}

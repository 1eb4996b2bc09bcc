package session

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
)

// Settings returns a copy of the current settings.
func (c *Controller) Settings() *models.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := *c.settings
	cp.FavoriteModels = make(map[string]bool, len(c.settings.FavoriteModels))
	for id, ok := range c.settings.FavoriteModels {
		cp.FavoriteModels[id] = ok
	}
	if c.settings.Templates != nil {
		t := *c.settings.Templates
		cp.Templates = &t
	}
	return &cp
}

// UpdateSettings applies a partial update and persists. A template
// override is accepted only if both its system and user templates are
// non-empty after trimming; this is the settings boundary the prompt
// builder relies on.
func (c *Controller) UpdateSettings(ctx context.Context, req *services.UpdateSettingsRequest) (*models.Settings, error) {
	if req.Templates != nil && !req.Templates.Usable() {
		return nil, fmt.Errorf("%w: template override requires both system and user templates", domain.ErrValidation)
	}

	c.mu.Lock()
	if req.Theme != nil {
		c.settings.Theme = *req.Theme
	}
	if req.FontSize != nil {
		c.settings.FontSize = *req.FontSize
	}
	if req.AutosaveInterval != nil {
		c.settings.AutosaveInterval = time.Duration(*req.AutosaveInterval) * time.Millisecond
	}
	if req.FavoriteModels != nil {
		favorites := make(map[string]bool, len(req.FavoriteModels))
		for _, id := range req.FavoriteModels {
			favorites[id] = true
		}
		c.settings.FavoriteModels = favorites
	}
	if req.ClearTemplates {
		c.settings.Templates = nil
	} else if req.Templates != nil {
		t := *req.Templates
		c.settings.Templates = &t
	}
	if req.LastModel != nil {
		c.settings.LastModel = *req.LastModel
	}
	if req.LastTemperature != nil {
		c.settings.LastTemperature = *req.LastTemperature
	}
	if req.LastMaxTokens != nil {
		c.settings.LastMaxTokens = *req.LastMaxTokens
	}
	c.settings.UpdatedAt = time.Now()
	c.mu.Unlock()

	if err := c.Persist(ctx); err != nil {
		return nil, err
	}

	c.logger.Info("settings updated",
		"has_templates", req.Templates != nil,
		"cleared_templates", req.ClearTemplates,
		"favorites", len(req.FavoriteModels),
	)

	return c.Settings(), nil
}

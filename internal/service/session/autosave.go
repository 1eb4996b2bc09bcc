package session

import (
	"context"
	"time"
)

// Persist writes the current application state through the gateway
// immediately. Any pending debounced save is absorbed: the state it
// would have written is being written now.
func (c *Controller) Persist(ctx context.Context) error {
	c.mu.Lock()
	if c.saveTimer != nil {
		c.saveTimer.Stop()
		c.saveTimer = nil
	}
	settings := *c.settings
	c.mu.Unlock()

	snap := c.store.Snapshot(&settings)
	return c.gateway.Save(ctx, snap)
}

// Schedule arms the debounced save: each call resets the single-shot
// delay timer, so only the most recent reset fires and a burst of
// edits coalesces into one save.
func (c *Controller) Schedule() {
	c.mu.Lock()
	defer c.mu.Unlock()

	interval := c.settings.AutosaveInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	if c.saveTimer != nil {
		c.saveTimer.Stop()
	}
	c.saveTimer = time.AfterFunc(interval, func() {
		if err := c.Persist(context.Background()); err != nil {
			c.logger.Error("autosave failed", "error", err)
		}
	})
}

// Flush persists synchronously; used on shutdown.
func (c *Controller) Flush(ctx context.Context) error {
	return c.Persist(ctx)
}

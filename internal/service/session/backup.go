package session

import (
	"context"
)

// ExportBackup renders the full application state as plaintext JSON.
func (c *Controller) ExportBackup(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	settings := *c.settings
	c.mu.Unlock()

	snap := c.store.Snapshot(&settings)
	return c.gateway.ExportBackup(snap)
}

// ImportBackup replaces the entire application state with a previously
// exported backup. The imported state is persisted immediately so a
// crash right after import does not silently revert it.
func (c *Controller) ImportBackup(ctx context.Context, data []byte) error {
	snap, err := c.gateway.ImportBackup(data)
	if err != nil {
		return err
	}

	c.store.LoadSnapshot(snap)

	c.mu.Lock()
	c.settings = snap.Settings
	c.currentProject = ""
	c.activeDocument = ""
	c.mu.Unlock()

	c.RestoreLastOpened()

	c.logger.Info("backup imported",
		"projects", len(snap.Projects),
		"documents", len(snap.Documents),
	)

	return c.Persist(ctx)
}

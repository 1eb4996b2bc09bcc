// Package persistence serializes application state to the local store
// and back. The gateway receives a snapshot, writes it, and forgets it;
// it holds no references between calls.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// Gateway persists encrypted snapshots under a single fixed key.
type Gateway struct {
	store      repositories.KVStore
	passphrase string
	logger     *slog.Logger
}

// NewGateway creates a persistence gateway over the given store.
func NewGateway(store repositories.KVStore, passphrase string, logger *slog.Logger) *Gateway {
	return &Gateway{
		store:      store,
		passphrase: passphrase,
		logger:     logger,
	}
}

// Save serializes the snapshot, seals it, and writes it to the store.
func (g *Gateway) Save(ctx context.Context, snap *models.Snapshot) error {
	snap.Version = models.SnapshotVersion
	snap.Timestamp = time.Now()

	plaintext, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	blob, err := seal(g.passphrase, plaintext)
	if err != nil {
		return fmt.Errorf("seal snapshot: %w", err)
	}

	if err := g.store.Put(ctx, config.SnapshotKey, blob); err != nil {
		return err
	}

	g.logger.Debug("snapshot saved",
		"projects", len(snap.Projects),
		"documents", len(snap.Documents),
		"bytes", len(blob),
	)

	return nil
}

// Load reads and decrypts the persisted snapshot. A missing key, a blob
// that fails to decrypt, or one that fails to parse all return
// (nil, nil): callers treat every one of those identically to first run.
// Only a store-level failure is an error.
func (g *Gateway) Load(ctx context.Context) (*models.Snapshot, error) {
	blob, err := g.store.Get(ctx, config.SnapshotKey)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}

	plaintext, err := open(g.passphrase, blob)
	if err != nil {
		g.logger.Warn("snapshot failed to decrypt, treating as first run", "error", err)
		return nil, nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		g.logger.Warn("snapshot failed to parse, treating as first run", "error", err)
		return nil, nil
	}

	return &snap, nil
}

// ExportBackup renders the snapshot as plaintext JSON with no cipher
// step, for portability across storage backends.
func (g *Gateway) ExportBackup(snap *models.Snapshot) ([]byte, error) {
	snap.Version = models.SnapshotVersion
	snap.Timestamp = time.Now()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// ImportBackup parses a plaintext backup. Unlike Load, a malformed
// backup is reported: the user explicitly picked this file.
func (g *Gateway) ImportBackup(data []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("backup is not valid JSON: %v", err)}
	}
	if snap.Settings == nil {
		snap.Settings = models.DefaultSettings()
	}
	return &snap, nil
}

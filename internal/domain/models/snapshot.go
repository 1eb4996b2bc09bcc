package models

import (
	"time"
)

// SnapshotVersion is bumped when the persisted layout changes shape.
const SnapshotVersion = 1

// Snapshot is the full serialized application state. The persistence
// gateway receives a snapshot and returns a snapshot; it never holds a
// reference beyond the duration of a save or load call.
type Snapshot struct {
	Projects  []Project  `json:"projects"`
	Documents []Document `json:"documents"`
	Settings  *Settings  `json:"settings"`
	Version   int        `json:"version"`
	Timestamp time.Time  `json:"timestamp"`
}

// EmptySnapshot returns the state used on first run or after the
// persisted blob turns out to be corrupt.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Projects:  []Project{},
		Documents: []Document{},
		Settings:  DefaultSettings(),
		Version:   SnapshotVersion,
		Timestamp: time.Now(),
	}
}

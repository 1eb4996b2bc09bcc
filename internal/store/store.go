// Package store holds the session's in-memory state: every project and
// document, ordered. It is the exclusive owner of these records; the
// persistence gateway only ever sees snapshots copied out of it.
package store

import (
	"sort"
	"sync"
	"time"

	"inkwell/internal/domain/models"
	"inkwell/internal/utils"
)

// Store is the in-memory ordered collection of documents grouped by
// project. All methods are safe for concurrent use; the mutex stands in
// for the original single event loop.
type Store struct {
	mu        sync.RWMutex
	projects  map[string]*models.Project
	documents map[string]*models.Document

	// insertion keeps per-project arrival order so documents that come
	// in without a usable order can be repaired deterministically
	insertion map[string][]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		projects:  make(map[string]*models.Project),
		documents: make(map[string]*models.Document),
		insertion: make(map[string][]string),
	}
}

// LoadSnapshot replaces the store contents with the snapshot's records.
func (s *Store) LoadSnapshot(snap *models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = make(map[string]*models.Project, len(snap.Projects))
	s.documents = make(map[string]*models.Document, len(snap.Documents))
	s.insertion = make(map[string][]string)

	for i := range snap.Projects {
		p := snap.Projects[i]
		s.projects[p.ID] = &p
	}
	for i := range snap.Documents {
		d := snap.Documents[i]
		s.documents[d.ID] = &d
		s.insertion[d.ProjectID] = append(s.insertion[d.ProjectID], d.ID)
	}
}

// Snapshot copies the full store state out for persistence. Projects
// carry their recomputed aggregate word counts.
func (s *Store) Snapshot(settings *models.Settings) *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &models.Snapshot{
		Projects:  make([]models.Project, 0, len(s.projects)),
		Documents: make([]models.Document, 0, len(s.documents)),
		Settings:  settings,
		Version:   models.SnapshotVersion,
		Timestamp: time.Now(),
	}

	for _, p := range s.projects {
		cp := *p
		cp.WordCount = s.projectWordCountLocked(p.ID)
		snap.Projects = append(snap.Projects, cp)
	}
	sort.Slice(snap.Projects, func(i, j int) bool {
		return snap.Projects[i].CreatedAt.Before(snap.Projects[j].CreatedAt)
	})

	for _, d := range s.documents {
		snap.Documents = append(snap.Documents, *d)
	}
	sort.Slice(snap.Documents, func(i, j int) bool {
		a, b := snap.Documents[i], snap.Documents[j]
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		return a.Order < b.Order
	})

	return snap
}

// --- projects ---

// Projects returns all projects ordered by most recently updated.
func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		cp := *p
		cp.WordCount = s.projectWordCountLocked(p.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// GetProject returns a copy of the project, or nil if absent.
func (s *Store) GetProject(id string) *models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil
	}
	cp := *p
	cp.WordCount = s.projectWordCountLocked(id)
	return &cp
}

// PutProject inserts or replaces a project record.
func (s *Store) PutProject(p *models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.projects[p.ID] = &cp
}

// DeleteProject removes the project and cascades to every document
// whose project reference equals its identifier. Returns the IDs of the
// removed documents, or false if the project does not exist.
func (s *Store) DeleteProject(id string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return nil, false
	}
	delete(s.projects, id)

	var removed []string
	for docID, d := range s.documents {
		if d.ProjectID == id {
			removed = append(removed, docID)
			delete(s.documents, docID)
		}
	}
	delete(s.insertion, id)
	return removed, true
}

// --- documents ---

// Documents returns the project's documents ascending by order. Every
// returned document carries a defined order: any document missing one
// (order < 0) is assigned its index in insertion order as a repair
// step. The repair mutates the store; the caller should persist.
func (s *Store) Documents(projectID string) []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.documentsLocked(projectID)
}

func (s *Store) documentsLocked(projectID string) []models.Document {
	needsRepair := false
	for _, id := range s.insertion[projectID] {
		if d, ok := s.documents[id]; ok && d.Order < 0 {
			needsRepair = true
			break
		}
	}
	if needsRepair {
		for i, id := range s.insertion[projectID] {
			if d, ok := s.documents[id]; ok && d.Order < 0 {
				d.Order = i
			}
		}
	}

	var out []models.Document
	for _, d := range s.documents {
		if d.ProjectID == projectID {
			out = append(out, *d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// GetDocument returns a copy of the document, or nil if absent.
func (s *Store) GetDocument(id string) *models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[id]
	if !ok {
		return nil
	}
	cp := *d
	return &cp
}

// PutDocument inserts or replaces a document record. The word count
// cache is recomputed from content here, on every save.
func (s *Store) PutDocument(d *models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	cp.WordCount = utils.CountContentWords(cp.Content)

	if _, existed := s.documents[d.ID]; !existed {
		s.insertion[d.ProjectID] = append(s.insertion[d.ProjectID], d.ID)
	}
	s.documents[d.ID] = &cp
}

// DeleteDocument removes a document. Returns false if absent.
func (s *Store) DeleteDocument(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]
	if !ok {
		return false
	}
	delete(s.documents, id)

	ins := s.insertion[d.ProjectID]
	for i, docID := range ins {
		if docID == id {
			s.insertion[d.ProjectID] = append(ins[:i], ins[i+1:]...)
			break
		}
	}
	return true
}

// ToggleEnabled flips the enabled flag. No ordering side effects.
// Returns the new value and false if the document does not exist.
func (s *Store) ToggleEnabled(id string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]
	if !ok {
		return false, false
	}
	d.Enabled = !d.Enabled
	d.UpdatedAt = time.Now()
	return d.Enabled, true
}

// Reorder removes movedID from its position among the project's
// documents, re-inserts it immediately before or after targetID, then
// reassigns every document in the project a dense 0-based order equal
// to its new index. Returns false (a reported no-op) if either document
// is missing or they belong to different projects.
func (s *Store) Reorder(projectID, movedID, targetID string, insertBefore bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved, ok := s.documents[movedID]
	if !ok || moved.ProjectID != projectID {
		return false
	}
	target, ok := s.documents[targetID]
	if !ok || target.ProjectID != projectID {
		return false
	}
	if movedID == targetID {
		return false
	}

	docs := s.documentsLocked(projectID)

	// splice moved out
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.ID != movedID {
			ids = append(ids, d.ID)
		}
	}

	// re-insert relative to target
	out := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		if id == targetID && insertBefore {
			out = append(out, movedID)
		}
		out = append(out, id)
		if id == targetID && !insertBefore {
			out = append(out, movedID)
		}
	}

	// dense renumber 0..n-1
	now := time.Now()
	for i, id := range out {
		d := s.documents[id]
		if d.Order != i {
			d.Order = i
			d.UpdatedAt = now
		}
	}
	return true
}

// ProjectWordCount sums the cached word counts of a project's documents.
func (s *Store) ProjectWordCount(projectID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectWordCountLocked(projectID)
}

func (s *Store) projectWordCountLocked(projectID string) int {
	total := 0
	for _, d := range s.documents {
		if d.ProjectID == projectID {
			total += d.WordCount
		}
	}
	return total
}

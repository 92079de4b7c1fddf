package datastore

import (
	"sync"
	"time"

	"fileview/internal/model"
)

// Snapshot is a copy of the store contents at one point in time.
type Snapshot struct {
	Generation uint64             `json:"generation"`
	LoadedAt   time.Time          `json:"loaded_at"`
	Files      []model.FileRecord `json:"files"`
}

// Store is the process-wide holder of the most recently loaded file list.
//
// Each Publish starts a new generation. Writers merge enrichment results
// through Update, naming the generation they belong to, so results of a
// superseded load never touch the current list. Readers always get copies.
type Store struct {
	mu         sync.RWMutex
	generation uint64
	loadedAt   time.Time
	files      []model.FileRecord

	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// Publish replaces the file list and returns its generation.
func (s *Store) Publish(files []model.FileRecord) uint64 {
	cp := model.CloneFiles(files)
	if cp == nil {
		cp = []model.FileRecord{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.loadedAt = s.now().UTC()
	s.files = cp
	return s.generation
}

// Snapshot returns the current contents. ok is false until the first Publish.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.generation == 0 {
		return Snapshot{}, false
	}
	return Snapshot{
		Generation: s.generation,
		LoadedAt:   s.loadedAt,
		Files:      model.CloneFiles(s.files),
	}, true
}

// Files returns the file list of generation gen. ok is false when gen is no
// longer current.
func (s *Store) Files(gen uint64) ([]model.FileRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if gen == 0 || gen != s.generation {
		return nil, false
	}
	return model.CloneFiles(s.files), true
}

// Find returns the record with the given id from the current list.
func (s *Store) Find(id string) (model.FileRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.files {
		if f.ID() == id {
			return f.Clone(), true
		}
	}
	return model.FileRecord{}, false
}

// Update applies fn to record i of generation gen under the write lock.
// It reports false, without calling fn, when gen is stale or i is out of range.
func (s *Store) Update(gen uint64, i int, fn func(*model.FileRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == 0 || gen != s.generation || i < 0 || i >= len(s.files) {
		return false
	}
	fn(&s.files[i])
	return true
}

// Generation returns the current generation, 0 before the first Publish.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

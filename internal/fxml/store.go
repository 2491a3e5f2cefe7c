package fxml

import (
	"path/filepath"
	"sort"
	"sync"
)

// Store is the path-keyed index of parsed views. It is safe for concurrent use
// and only ever hands out copies, so callers cannot mutate indexed entries.
type Store struct {
	mu    sync.RWMutex
	views map[string]ViewDescriptor
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{views: make(map[string]ViewDescriptor)}
}

// Get returns the descriptor indexed under path.
func (s *Store) Get(path string) (ViewDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	desc, ok := s.views[filepath.Clean(path)]
	if !ok {
		return ViewDescriptor{}, false
	}
	return desc.clone(), true
}

// Upsert replaces (or adds) the descriptor for desc.Path. Last write wins.
func (s *Store) Upsert(desc ViewDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	desc.Path = filepath.Clean(desc.Path)
	s.views[desc.Path] = desc.clone()
}

// Remove drops the entry for path and reports whether one existed.
func (s *Store) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	path = filepath.Clean(path)
	if _, ok := s.views[path]; !ok {
		return false
	}
	delete(s.views, path)
	return true
}

// Snapshot returns copies of all descriptors sorted by path.
func (s *Store) Snapshot() []ViewDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ViewDescriptor, 0, len(s.views))
	for _, desc := range s.views {
		out = append(out, desc.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// FindByControllerPath returns the first view (by path order) whose resolved
// controller file is controllerPath.
func (s *Store) FindByControllerPath(controllerPath string) (ViewDescriptor, bool) {
	controllerPath = filepath.Clean(controllerPath)
	for _, desc := range s.Snapshot() {
		if desc.ControllerFilePath != "" && filepath.Clean(desc.ControllerFilePath) == controllerPath {
			return desc, true
		}
	}
	return ViewDescriptor{}, false
}

// Len returns the number of indexed views.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// Reset clears the index.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = make(map[string]ViewDescriptor)
}

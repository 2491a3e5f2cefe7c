package check

import (
	"path/filepath"
	"sort"
	"sync"
)

// Collection holds the current diagnostics of one source, keyed by file.
// Setting a path replaces everything previously reported for it.
type Collection struct {
	name string

	mu    sync.RWMutex
	items map[string][]Diagnostic
}

// NewCollection creates an empty named collection.
func NewCollection(name string) *Collection {
	return &Collection{name: name, items: make(map[string][]Diagnostic)}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Set replaces the diagnostics for path. An empty slice clears it.
func (c *Collection) Set(path string, diags []Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path = filepath.Clean(path)
	if len(diags) == 0 {
		delete(c.items, path)
		return
	}
	c.items[path] = append([]Diagnostic(nil), diags...)
}

// Delete drops the diagnostics for path.
func (c *Collection) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, filepath.Clean(path))
}

// Get returns a copy of the diagnostics for path.
func (c *Collection) Get(path string) []Diagnostic {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Diagnostic(nil), c.items[filepath.Clean(path)]...)
}

// All returns every diagnostic ordered by path, then position.
func (c *Collection) All() []Diagnostic {
	c.mu.RLock()
	paths := make([]string, 0, len(c.items))
	for p := range c.items {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var out []Diagnostic
	for _, p := range paths {
		out = append(out, c.items[p]...)
	}
	c.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Range.StartLine < out[j].Range.StartLine
	})
	return out
}

// Len returns the number of files with diagnostics.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all diagnostics.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string][]Diagnostic)
}

package fxml

import (
	"context"
	"log"
	"path/filepath"
	"strings"
)

// Matcher selects which paths are FXML views.
type Matcher interface {
	Matches(path string) bool
	Discover() ([]string, error)
}

// Indexer keeps a Store in sync with the FXML files of one workspace.
type Indexer struct {
	store         *Store
	matcher       Matcher
	workspaceRoot string
	sourceRoot    string
	javaRoot      string
}

// NewIndexer creates an indexer writing into store. Only files under
// <workspaceRoot>/<sourceRoot> are indexed.
func NewIndexer(store *Store, matcher Matcher, workspaceRoot, sourceRoot, javaRoot string) *Indexer {
	return &Indexer{
		store:         store,
		matcher:       matcher,
		workspaceRoot: workspaceRoot,
		sourceRoot:    sourceRoot,
		javaRoot:      javaRoot,
	}
}

// Store returns the backing store.
func (ix *Indexer) Store() *Store {
	return ix.store
}

// Scan discovers and parses all views. A file that cannot be read is logged
// and skipped. onParsed, when non-nil, is called once per discovered file.
// It returns the number of views indexed.
func (ix *Indexer) Scan(ctx context.Context, onParsed func(path string)) (int, error) {
	paths, err := ix.matcher.Discover()
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}
		if _, ok := ix.Refresh(path); ok {
			indexed++
		}
		if onParsed != nil {
			onParsed(path)
		}
	}
	return indexed, nil
}

// Discover lists the FXML files the indexer would scan.
func (ix *Indexer) Discover() ([]string, error) {
	return ix.matcher.Discover()
}

// Refresh re-parses one file into the store. ok is false when the path is not
// a view under the source root or could not be read; the stale entry is kept
// in the latter case.
func (ix *Indexer) Refresh(path string) (ViewDescriptor, bool) {
	if !ix.Accepts(path) {
		return ViewDescriptor{}, false
	}

	desc, err := ParseFile(path, ix.workspaceRoot, ix.javaRoot)
	if err != nil {
		log.Printf("Error: %v", err)
		return ViewDescriptor{}, false
	}

	ix.store.Upsert(desc)
	return desc, true
}

// Forget removes a deleted view from the store.
func (ix *Indexer) Forget(path string) bool {
	return ix.store.Remove(path)
}

// Accepts reports whether path is an FXML view under the source root.
func (ix *Indexer) Accepts(path string) bool {
	if !ix.matcher.Matches(path) {
		return false
	}
	if ix.sourceRoot == "" {
		return true
	}
	src := filepath.Join(ix.workspaceRoot, filepath.FromSlash(ix.sourceRoot))
	rel, err := filepath.Rel(src, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

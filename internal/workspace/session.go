// Package workspace holds the per-project session: the FXML index, the Java
// symbol workspace and the diagnostic collections, plus the refresh pipelines
// that keep them current.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mvp-joe/javafx-support/internal/builder"
	"github.com/mvp-joe/javafx-support/internal/check"
	"github.com/mvp-joe/javafx-support/internal/config"
	"github.com/mvp-joe/javafx-support/internal/discovery"
	"github.com/mvp-joe/javafx-support/internal/fix"
	"github.com/mvp-joe/javafx-support/internal/fxml"
	"github.com/mvp-joe/javafx-support/internal/javasrc"
	"github.com/mvp-joe/javafx-support/internal/watcher"
)

// Session is the state of one open project. Pipeline writes are serialized;
// reads return copies.
type Session struct {
	root string
	cfg  *config.Config

	sources   *discovery.Discovery
	indexer   *fxml.Indexer
	java      *javasrc.Workspace
	generator *builder.Generator

	views      *check.Collection
	fields     *check.Collection
	scene      *check.Collection
	properties *check.Collection

	mu   sync.Mutex
	main *builder.MainClass
}

// NewSession creates an empty session for the project at root. Call Load to
// populate it.
func NewSession(root string, cfg *config.Config) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	viewMatcher, err := discovery.New(root, cfg.Paths.Views, cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid view patterns: %w", err)
	}
	sources, err := discovery.New(root, cfg.Paths.Controllers, cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid controller patterns: %w", err)
	}
	java, err := javasrc.NewWorkspace(javasrc.Options{
		Roots:      cfg.JavaRoots(root),
		Ignores:    cfg.Paths.Ignore,
		PublicOnly: true,
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		root:       root,
		cfg:        cfg,
		sources:    sources,
		indexer:    fxml.NewIndexer(fxml.NewStore(), viewMatcher, root, cfg.Paths.SourceRoot, cfg.Paths.JavaRoot),
		java:       java,
		generator:  builder.NewGenerator(java, java, nil, cfg.BuilderOptions()),
		views:      check.NewCollection(check.SourceFxml),
		fields:     check.NewCollection(check.SourceFxID),
		scene:      check.NewCollection(check.SourceScene),
		properties: check.NewCollection(check.SourceProperty),
	}, nil
}

// Close releases the Java symbol cache.
func (s *Session) Close() {
	s.java.Close()
}

// Root returns the absolute project root.
func (s *Session) Root() string { return s.root }

// Config returns the session configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Store returns the FXML index.
func (s *Session) Store() *fxml.Store { return s.indexer.Store() }

// Java returns the Java symbol workspace.
func (s *Session) Java() *javasrc.Workspace { return s.java }

// Collections returns the diagnostic collections in a fixed order.
func (s *Session) Collections() []*check.Collection {
	return []*check.Collection{s.views, s.fields, s.scene, s.properties}
}

// Diagnostics returns every diagnostic for path across all collections.
func (s *Session) Diagnostics(path string) []check.Diagnostic {
	out := []check.Diagnostic{}
	for _, c := range s.Collections() {
		out = append(out, c.Get(path)...)
	}
	return out
}

// AllDiagnostics returns every diagnostic in the session.
func (s *Session) AllDiagnostics() []check.Diagnostic {
	out := []check.Diagnostic{}
	for _, c := range s.Collections() {
		out = append(out, c.All()...)
	}
	return out
}

// MainClass returns the JavaFX application class found by the last Load.
func (s *Session) MainClass() (builder.MainClass, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.main == nil {
		return builder.MainClass{}, false
	}
	return *s.main, true
}

// Reset clears every index and collection.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.indexer.Store().Reset()
	s.java.Reset()
	for _, c := range s.Collections() {
		c.Clear()
	}
	s.main = nil
}

// Load indexes Java sources and views, then diagnoses everything.
func (s *Session) Load(ctx context.Context, progress ProgressReporter) (*LoadStats, error) {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	start := time.Now()

	progress.OnDiscoveryStart()
	viewPaths, err := s.indexer.Discover()
	if err != nil {
		return nil, fmt.Errorf("failed to discover views: %w", err)
	}
	javaPaths, err := s.java.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to discover java sources: %w", err)
	}
	progress.OnDiscoveryComplete(len(viewPaths), len(javaPaths))

	progress.OnFileProcessingStart(len(viewPaths) + len(javaPaths))
	onFile := func(path string) { progress.OnFileProcessed(path) }

	sources, err := s.java.Index(ctx, onFile)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if main, err := builder.FindMainClass(s.root, s.cfg.Paths.Ignore); err == nil {
		s.main = &main
	} else {
		s.main = nil
	}
	s.mu.Unlock()

	views, err := s.indexer.Scan(ctx, onFile)
	if err != nil {
		return nil, err
	}

	controllers, err := s.CheckAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.scanSources(ctx); err != nil {
		return nil, err
	}

	stats := &LoadStats{
		Views:       views,
		SourceFiles: sources,
		Controllers: controllers,
		Diagnostics: len(s.AllDiagnostics()),
		Duration:    time.Since(start),
	}
	progress.OnComplete(stats)
	return stats, nil
}

// Reload resets the session and loads it again.
func (s *Session) Reload(ctx context.Context) error {
	s.Reset()
	_, err := s.Load(ctx, nil)
	return err
}

// CheckAll diagnoses every view and every bound controller. It returns the
// number of controllers checked.
func (s *Session) CheckAll(ctx context.Context) (int, error) {
	checked := make(map[string]bool)
	for _, desc := range s.Store().Snapshot() {
		if err := ctx.Err(); err != nil {
			return len(checked), err
		}
		s.diagnoseView(desc)

		if desc.ControllerFilePath == "" || checked[desc.ControllerFilePath] {
			continue
		}
		if !fileExists(desc.ControllerFilePath) {
			continue
		}
		checked[desc.ControllerFilePath] = true
		if _, err := s.CheckController(desc.ControllerFilePath); err != nil {
			log.Printf("Error: %v", err)
		}
	}
	return len(checked), nil
}

// CheckController re-reads a controller from disk and diagnoses it.
func (s *Session) CheckController(path string) ([]check.Diagnostic, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		s.fields.Delete(path)
		return nil, fmt.Errorf("failed to read controller %s: %w", path, err)
	}
	return s.CheckControllerText(path, string(content)), nil
}

// CheckControllerText diagnoses path against the view bound to it, using text
// instead of the file on disk. A file no view binds has its diagnostics cleared.
func (s *Session) CheckControllerText(path, text string) []check.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()

	desc, ok := s.Store().FindByControllerPath(path)
	if !ok {
		s.fields.Delete(path)
		return []check.Diagnostic{}
	}
	diags := check.DiagnoseController(desc, path, text)
	s.fields.Set(path, diags)
	return diags
}

// View returns the view bound to controllerPath.
func (s *Session) View(controllerPath string) (fxml.ViewDescriptor, bool) {
	return s.Store().FindByControllerPath(controllerPath)
}

// HandleEvents applies one watcher batch. Each event is processed on its own;
// a failing event is logged and the rest of the batch continues.
func (s *Session) HandleEvents(ctx context.Context, events []watcher.Event) {
	for _, ev := range events {
		if ctx.Err() != nil {
			return
		}
		var err error
		switch strings.ToLower(filepath.Ext(ev.Path)) {
		case ".fxml":
			err = s.handleView(ev)
		case ".java":
			err = s.handleSource(ctx, ev)
		}
		if err != nil {
			log.Printf("Error: %s %s: %v", ev.Op, ev.Path, err)
		}
	}
}

func (s *Session) handleView(ev watcher.Event) error {
	prev, hadPrev := s.Store().Get(ev.Path)

	if ev.Op == watcher.OpDelete {
		s.indexer.Forget(ev.Path)
		s.views.Delete(ev.Path)
	} else {
		desc, ok := s.indexer.Refresh(ev.Path)
		if !ok {
			return nil
		}
		s.diagnoseView(desc)
		if desc.ControllerFilePath != "" && fileExists(desc.ControllerFilePath) {
			if _, err := s.CheckController(desc.ControllerFilePath); err != nil {
				return err
			}
		}
	}

	// The previous controller may have lost its view.
	if hadPrev && prev.ControllerFilePath != "" {
		if cur, ok := s.Store().Get(ev.Path); !ok || cur.ControllerFilePath != prev.ControllerFilePath {
			if fileExists(prev.ControllerFilePath) {
				if _, err := s.CheckController(prev.ControllerFilePath); err != nil {
					return err
				}
			} else {
				s.fields.Delete(prev.ControllerFilePath)
			}
		}
	}
	return nil
}

func (s *Session) handleSource(ctx context.Context, ev watcher.Event) error {
	if s.java.Contains(ev.Path) {
		s.java.Invalidate(ev.Path)
	}

	// Views bound to a controller report whether its file exists.
	for _, desc := range s.Store().Snapshot() {
		if filepath.Clean(desc.ControllerFilePath) == filepath.Clean(ev.Path) {
			s.diagnoseView(desc)
		}
	}

	if ev.Op == watcher.OpDelete {
		s.fields.Delete(ev.Path)
		s.scene.Delete(ev.Path)
		s.properties.Delete(ev.Path)
		return nil
	}

	if _, ok := s.View(ev.Path); ok {
		if _, err := s.CheckController(ev.Path); err != nil {
			return err
		}
	}
	if !s.scannable(ev.Path) {
		return nil
	}
	content, err := os.ReadFile(ev.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ev.Path, err)
	}
	return s.ScanSource(ctx, ev.Path, string(content))
}

// ScanSource refreshes the builder and accessor hints for one Java file.
func (s *Session) ScanSource(ctx context.Context, path, text string) error {
	diags, err := builder.ScanConstructions(ctx, path, text, s.java, s.cfg.Builder.UITypeMarker, s.builderExists)
	if err != nil {
		return err
	}
	s.scene.Set(path, diags)
	s.properties.Set(path, fix.AccessorCandidates(path, text))
	return nil
}

// GenerateBuilder creates the builder for the type at path:line:col. The
// returned call-site rewrite is not applied.
func (s *Session) GenerateBuilder(ctx context.Context, path string, line, col int) (*builder.Result, error) {
	res, err := s.generator.Generate(ctx, builder.Request{
		WorkspaceRoot: s.root,
		Path:          path,
		Line:          line,
		Col:           col,
	})
	if err != nil {
		return nil, err
	}
	res.Supertypes = s.java.Ancestors(res.QualifiedName)

	s.mu.Lock()
	s.main = &res.MainClass
	s.mu.Unlock()

	if s.java.Contains(res.BuilderPath) {
		s.java.Invalidate(res.BuilderPath)
	}
	if content, err := os.ReadFile(path); err == nil && s.scannable(path) {
		if err := s.ScanSource(ctx, path, string(content)); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Warning: failed to rescan %s: %v", path, err)
		}
	}
	return res, nil
}

// ApplyCallSite writes a call-site rewrite returned by GenerateBuilder and
// refreshes the file's diagnostics.
func (s *Session) ApplyCallSite(ctx context.Context, cs *builder.CallSite) error {
	if cs == nil || cs.Updated == "" {
		return nil
	}
	info, err := os.Stat(cs.Path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cs.Path, []byte(cs.Updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", cs.Path, err)
	}
	s.HandleEvents(ctx, []watcher.Event{{Path: cs.Path, Op: watcher.OpChange}})
	return nil
}

func (s *Session) scanSources(ctx context.Context) error {
	paths, err := s.sources.Discover()
	if err != nil {
		return fmt.Errorf("failed to discover java sources: %w", err)
	}
	for _, path := range paths {
		if !s.scannable(path) {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warning: failed to read %s: %v", path, err)
			continue
		}
		if err := s.ScanSource(ctx, path, string(content)); err != nil {
			return err
		}
	}
	return nil
}

// scannable reports whether path is a project source under the source root.
func (s *Session) scannable(path string) bool {
	if !s.sources.Matches(path) {
		return false
	}
	src := filepath.Join(s.root, filepath.FromSlash(s.cfg.Paths.SourceRoot))
	rel, err := filepath.Rel(src, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (s *Session) builderExists(target string) bool {
	main, ok := s.MainClass()
	if !ok {
		return false
	}
	return builder.BuilderExists(main, s.cfg.Builder.PackageDir, target)
}

func (s *Session) diagnoseView(desc fxml.ViewDescriptor) {
	s.views.Set(desc.Path, check.DiagnoseView(desc, fileExists))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var _ watcher.Handler = (*Session)(nil)

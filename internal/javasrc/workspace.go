package javasrc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/maypok86/otter"

	"github.com/mvp-joe/javafx-support/internal/discovery"
	"github.com/mvp-joe/javafx-support/internal/hierarchy"
)

// ErrTypeNotFound is returned when no known type is found at a position.
var ErrTypeNotFound = errors.New("type not found")

// DefaultCacheSize bounds the number of full file outlines kept in memory.
const DefaultCacheSize = 2048

// Options configure a Workspace.
type Options struct {
	// Roots are the source directories to index, workspace first.
	Roots []string
	// Ignores are glob patterns relative to each root.
	Ignores []string
	// PublicOnly hides non-public class members from DocumentSymbols.
	PublicOnly bool
	// CacheSize bounds the outline cache; DefaultCacheSize when zero.
	CacheSize int
}

type typeEntry struct {
	qualified string
	decl      TypeDecl
	path      string
	uri       string
}

// Workspace indexes the type declarations of a set of source roots. Type
// relations are kept in a directed graph (subtype -> supertype); member
// outlines are parsed on demand and cached.
type Workspace struct {
	parser     *Parser
	roots      []*discovery.Discovery
	publicOnly bool

	mu       sync.RWMutex
	files    map[string]*FileSymbols
	types    map[string]*typeEntry
	bySimple map[string][]string
	graph    graph.Graph[string, *typeEntry]

	outlines otter.Cache[string, *FileSymbols]
}

// NewWorkspace creates an empty workspace. Call Index to populate it.
func NewWorkspace(opts Options) (*Workspace, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := otter.MustBuilder[string, *FileSymbols](size).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create symbol cache: %w", err)
	}

	w := &Workspace{
		parser:     NewParser(),
		publicOnly: opts.PublicOnly,
		outlines:   cache,
	}
	for _, root := range opts.Roots {
		d, err := discovery.New(root, []string{"**/*.java"}, opts.Ignores)
		if err != nil {
			cache.Close()
			return nil, fmt.Errorf("invalid pattern for %s: %w", root, err)
		}
		w.roots = append(w.roots, d)
	}
	w.reset()
	return w, nil
}

// Close releases the cache.
func (w *Workspace) Close() {
	w.outlines.Close()
}

// Reset drops all indexed files and cached outlines.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outlines.Clear()
	w.reset()
}

func (w *Workspace) reset() {
	w.files = make(map[string]*FileSymbols)
	w.types = make(map[string]*typeEntry)
	w.bySimple = make(map[string][]string)
	w.graph = graph.New(func(e *typeEntry) string { return e.qualified }, graph.Directed())
}

// Index parses every Java file under the roots. Unparseable files are logged
// and skipped. onFile, when non-nil, is called per file. It returns the number
// of files indexed.
func (w *Workspace) Index(ctx context.Context, onFile func(path string)) (int, error) {
	files := make(map[string]*FileSymbols)
	for _, d := range w.roots {
		paths, err := d.Discover()
		if err != nil {
			return 0, fmt.Errorf("failed to discover java files in %s: %w", d.Root(), err)
		}
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			fs, err := w.parseFile(path)
			if err != nil {
				log.Printf("Warning: %v", err)
			} else {
				files[path] = outline(fs)
			}
			if onFile != nil {
				onFile(path)
			}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.outlines.Clear()
	w.files = files
	w.rebuild()
	return len(files), nil
}

// Files returns all paths the workspace can index.
func (w *Workspace) Files() ([]string, error) {
	var all []string
	for _, d := range w.roots {
		paths, err := d.Discover()
		if err != nil {
			return nil, err
		}
		all = append(all, paths...)
	}
	return all, nil
}

// Contains reports whether path is a Java file under one of the roots.
func (w *Workspace) Contains(path string) bool {
	for _, d := range w.roots {
		if d.Matches(path) {
			return true
		}
	}
	return false
}

// Invalidate re-reads one file after it changed or was deleted.
func (w *Workspace) Invalidate(path string) {
	path = filepath.Clean(path)
	w.outlines.Delete(path)

	var fs *FileSymbols
	if _, err := os.Stat(path); err == nil && w.Contains(path) {
		parsed, err := w.parseFile(path)
		if err != nil {
			log.Printf("Warning: %v", err)
		} else {
			fs = outline(parsed)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if fs == nil {
		delete(w.files, path)
	} else {
		w.files[path] = fs
	}
	w.rebuild()
}

// Len returns the number of indexed types.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.types)
}

func (w *Workspace) parseFile(path string) (*FileSymbols, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read java file %s: %w", path, err)
	}
	fs, err := w.parser.Parse(PathToURI(path), source)
	if err != nil {
		return nil, err
	}
	w.outlines.Set(path, fs)
	return fs, nil
}

// outline drops member lists; the index only needs declarations.
func outline(fs *FileSymbols) *FileSymbols {
	out := *fs
	out.Types = make([]TypeDecl, len(fs.Types))
	for i, t := range fs.Types {
		t.Members = nil
		out.Types[i] = t
	}
	return &out
}

// rebuild recomputes the type tables and graph from w.files. Callers hold mu.
func (w *Workspace) rebuild() {
	files := w.files
	w.reset()
	w.files = files

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fs := files[p]
		for _, t := range fs.Types {
			qn := fs.QualifiedName(t.Name)
			if _, dup := w.types[qn]; dup {
				continue
			}
			e := &typeEntry{qualified: qn, decl: t, path: p, uri: fs.URI}
			w.types[qn] = e
			w.bySimple[t.Name] = append(w.bySimple[t.Name], qn)
			_ = w.graph.AddVertex(e)
		}
	}

	for _, p := range paths {
		fs := files[p]
		for _, t := range fs.Types {
			e := w.types[fs.QualifiedName(t.Name)]
			if e == nil || e.path != p {
				continue
			}
			// The edge weight keeps the declaration order of the supertypes.
			for i, ref := range t.Supertypes() {
				parent, ok := w.resolve(ref, fs)
				if !ok {
					continue
				}
				_ = w.graph.AddEdge(e.qualified, parent, graph.EdgeWeight(i))
			}
		}
	}
}

// resolve maps a type reference as written in fs to a known qualified name.
func (w *Workspace) resolve(ref string, fs *FileSymbols) (string, bool) {
	ref = stripGenerics(ref)
	if ref == "" {
		return "", false
	}
	if _, ok := w.types[ref]; ok && strings.Contains(ref, ".") {
		return ref, true
	}

	simple := ref
	if i := strings.LastIndex(ref, "."); i >= 0 {
		// Outer.Inner or an unknown qualified name; try the last segment.
		simple = ref[i+1:]
	}

	// Nested type declared in the same file.
	for _, t := range fs.Types {
		if t.Name == simple {
			return fs.QualifiedName(simple), true
		}
	}
	for _, imp := range fs.Imports {
		if !strings.HasSuffix(imp, ".*") && strings.HasSuffix(imp, "."+simple) {
			if _, ok := w.types[imp]; ok {
				return imp, true
			}
		}
	}
	if qn := fs.QualifiedName(simple); w.types[qn] != nil {
		return qn, true
	}
	for _, imp := range fs.Imports {
		if strings.HasSuffix(imp, ".*") {
			qn := strings.TrimSuffix(imp, "*") + simple
			if _, ok := w.types[qn]; ok {
				return qn, true
			}
		}
	}
	if qn := "java.lang." + simple; w.types[qn] != nil {
		return qn, true
	}
	if candidates := w.bySimple[simple]; len(candidates) == 1 {
		return candidates[0], true
	}
	return "", false
}

// DocumentSymbols implements hierarchy.SymbolProvider.
func (w *Workspace) DocumentSymbols(ctx context.Context, uri string) ([]hierarchy.Symbol, error) {
	fs, err := w.fullOutline(URIToPath(uri))
	if err != nil {
		return nil, err
	}
	return fs.Symbols(w.publicOnly), nil
}

func (w *Workspace) fullOutline(path string) (*FileSymbols, error) {
	if fs, ok := w.outlines.Get(path); ok {
		return fs, nil
	}
	return w.parseFile(path)
}

// TypeHierarchy implements hierarchy.HierarchyProvider. The type is the one
// named at the position, the one constructed on that line, or else the type
// declaration enclosing the line.
func (w *Workspace) TypeHierarchy(ctx context.Context, uri string, line, col int) (*hierarchy.TypeHierarchyItem, error) {
	path := URIToPath(uri)
	qn, err := w.typeAt(path, line, col, true)
	if err != nil {
		return nil, err
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	adj, err := w.graph.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read type graph: %w", err)
	}
	root := w.item(qn, adj, map[string]bool{})
	if root == nil {
		return nil, ErrTypeNotFound
	}

	preds, err := w.graph.PredecessorMap()
	if err == nil {
		var children []string
		for child := range preds[qn] {
			children = append(children, child)
		}
		sort.Strings(children)
		for _, child := range children {
			if e := w.types[child]; e != nil {
				root.Children = append(root.Children, e.toItem())
			}
		}
	}
	return root, nil
}

// item builds the ancestor tree of qn. Types already on the current path are
// skipped so cyclic declarations still yield a finite tree.
func (w *Workspace) item(qn string, adj map[string]map[string]graph.Edge[string], onPath map[string]bool) *hierarchy.TypeHierarchyItem {
	e := w.types[qn]
	if e == nil || onPath[qn] {
		return nil
	}
	onPath[qn] = true
	defer delete(onPath, qn)

	it := e.toItem()
	for _, parent := range supertypes(adj, qn) {
		if p := w.item(parent, adj, onPath); p != nil {
			it.Parents = append(it.Parents, p)
		}
	}
	return it
}

// supertypes returns the out-edges of qn in declaration order.
func supertypes(adj map[string]map[string]graph.Edge[string], qn string) []string {
	edges := make([]graph.Edge[string], 0, len(adj[qn]))
	for _, edge := range adj[qn] {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Properties.Weight < edges[j].Properties.Weight
	})

	out := make([]string, len(edges))
	for i, edge := range edges {
		out[i] = edge.Target
	}
	return out
}

func (e *typeEntry) toItem() *hierarchy.TypeHierarchyItem {
	pkg := ""
	if i := strings.LastIndex(e.qualified, "."); i >= 0 {
		pkg = e.qualified[:i]
	}
	return &hierarchy.TypeHierarchyItem{Name: e.decl.Name, Detail: pkg, URI: e.uri}
}

func (e *typeEntry) location() hierarchy.Location {
	return hierarchy.Location{URI: e.uri, QualifiedName: e.qualified, Line: e.decl.Line, Col: e.decl.Col}
}

// TypeDefinition returns the declaration of the type named at the position.
// Unknown types yield no locations.
func (w *Workspace) TypeDefinition(ctx context.Context, uri string, line, col int) ([]hierarchy.Location, error) {
	qn, err := w.typeAt(URIToPath(uri), line, col, false)
	if errors.Is(err, ErrTypeNotFound) {
		return []hierarchy.Location{}, nil
	}
	if err != nil {
		return nil, err
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if e := w.types[qn]; e != nil {
		return []hierarchy.Location{e.location()}, nil
	}
	return []hierarchy.Location{}, nil
}

// Lookup returns the location of a qualified type name.
func (w *Workspace) Lookup(qualified string) (hierarchy.Location, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.types[qualified]
	if !ok {
		return hierarchy.Location{}, false
	}
	return e.location(), true
}

// Ancestors returns every known supertype of qualified in breadth-first order,
// each level in declaration order.
func (w *Workspace) Ancestors(qualified string) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if _, ok := w.types[qualified]; !ok {
		return nil
	}
	adj, err := w.graph.AdjacencyMap()
	if err != nil {
		return nil
	}

	var out []string
	seen := map[string]bool{qualified: true}
	queue := []string{qualified}
	for len(queue) > 0 {
		qn := queue[0]
		queue = queue[1:]
		for _, parent := range supertypes(adj, qn) {
			if seen[parent] {
				continue
			}
			seen[parent] = true
			out = append(out, parent)
			queue = append(queue, parent)
		}
	}
	return out
}

var constructedType = regexp.MustCompile(`new\s+([\w.]+)\s*[(<]`)

func (w *Workspace) typeAt(path string, line, col int, enclosing bool) (string, error) {
	fs, err := w.fullOutline(path)
	if err != nil {
		return "", err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read java file %s: %w", path, err)
	}
	lines := strings.Split(string(source), "\n")
	if line < 0 || line >= len(lines) {
		return "", ErrTypeNotFound
	}
	text := strings.TrimRight(lines[line], "\r")

	w.mu.RLock()
	defer w.mu.RUnlock()

	if word := identifierAt(text, col); word != "" {
		if qn, ok := w.resolve(word, fs); ok {
			return qn, nil
		}
	}
	if !enclosing {
		return "", ErrTypeNotFound
	}
	if m := constructedType.FindStringSubmatch(text); m != nil {
		if qn, ok := w.resolve(m[1], fs); ok {
			return qn, nil
		}
	}

	best := -1
	for i, t := range fs.Types {
		if t.Line <= line && line <= t.EndLine && (best < 0 || t.Line >= fs.Types[best].Line) {
			best = i
		}
	}
	if best >= 0 {
		qn := fs.QualifiedName(fs.Types[best].Name)
		if _, ok := w.types[qn]; ok {
			return qn, nil
		}
	}
	return "", ErrTypeNotFound
}

// identifierAt returns the dotted identifier touching col.
func identifierAt(line string, col int) string {
	if col < 0 || col > len(line) {
		return ""
	}
	isIdent := func(c byte) bool {
		return c == '_' || c == '$' || c == '.' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
	}
	start, end := col, col
	for start > 0 && isIdent(line[start-1]) {
		start--
	}
	for end < len(line) && isIdent(line[end]) {
		end++
	}
	return strings.Trim(line[start:end], ".")
}

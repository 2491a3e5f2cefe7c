package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mvp-joe/javafx-support/internal/fix"
	"github.com/mvp-joe/javafx-support/internal/hierarchy"
	"github.com/mvp-joe/javafx-support/internal/javasrc"
)

var (
	// ErrSuperseded is returned by a generation replaced by a newer request.
	ErrSuperseded = errors.New("builder request superseded")
	// ErrNoType is returned when no type resolves at the requested position.
	ErrNoType = errors.New("no type at position")
)

var packageLinePattern = regexp.MustCompile(`(?m)^\s*package\s+[^;]+;`)

// Options configure a Generator.
type Options struct {
	PackageDir string
	Ignores    []string
	Collect    hierarchy.Options
	Repair     RepairOptions
}

// DefaultOptions returns the stock generator configuration.
func DefaultOptions() Options {
	return Options{
		PackageDir: DefaultPackageDir,
		Collect:    hierarchy.DefaultOptions(),
		Repair:     DefaultRepairOptions(),
	}
}

// Request asks for a builder of the type at Path:Line:Col.
type Request struct {
	WorkspaceRoot string
	Path          string
	Line          int
	Col           int
}

// CallSite is the rewritten construction expression of a request.
type CallSite struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Import  string `json:"import,omitempty"`
	Updated string `json:"-"`
}

// Result describes a generated builder.
type Result struct {
	ID            string                      `json:"id"`
	TargetClass   string                      `json:"target_class"`
	QualifiedName string                      `json:"qualified_name"`
	BuilderClass  string                      `json:"builder_class"`
	BuilderPath   string                      `json:"builder_path"`
	MainClass     MainClass                   `json:"main_class"`
	Methods       []hierarchy.MethodSignature `json:"methods"`
	Supertypes    []string                    `json:"supertypes,omitempty"`
	Source        string                      `json:"-"`
	CallSite      *CallSite                   `json:"call_site,omitempty"`
}

// Generator produces builder classes. Only the latest request runs; starting a
// new one cancels the previous one.
type Generator struct {
	types   hierarchy.HierarchyProvider
	symbols hierarchy.SymbolProvider
	diags   DiagnosticSource
	opts    Options

	mu      sync.Mutex
	current string
	cancel  context.CancelFunc
}

// NewGenerator creates a generator. diags may be nil.
func NewGenerator(types hierarchy.HierarchyProvider, symbols hierarchy.SymbolProvider, diags DiagnosticSource, opts Options) *Generator {
	if opts.PackageDir == "" {
		opts.PackageDir = DefaultPackageDir
	}
	return &Generator{types: types, symbols: symbols, diags: diags, opts: opts}
}

// Generate resolves the type at the request position, writes its builder next
// to the main class and rewrites the construction on the request line.
// The call-site rewrite is returned, not written.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	ctx, id := g.begin(ctx)
	defer g.finish(id)

	uri := javasrc.PathToURI(req.Path)
	root, err := g.types.TypeHierarchy(ctx, uri, req.Line, req.Col)
	if errors.Is(err, javasrc.ErrTypeNotFound) || (err == nil && root == nil) {
		return nil, g.abort(id, ErrNoType)
	}
	if err != nil {
		return nil, g.abort(id, fmt.Errorf("failed to resolve type hierarchy: %w", err))
	}

	methods, err := hierarchy.Collect(ctx, root, g.symbols, g.opts.Collect)
	if err != nil {
		return nil, g.abort(id, err)
	}
	if !g.isCurrent(id) {
		return nil, ErrSuperseded
	}

	main, err := FindMainClass(req.WorkspaceRoot, g.opts.Ignores)
	if err != nil {
		return nil, g.abort(id, err)
	}

	res := &Result{
		ID:            id,
		TargetClass:   root.Name,
		QualifiedName: root.QualifiedName(),
		BuilderClass:  BuilderName(root.Name),
		BuilderPath:   BuilderPath(main, g.opts.PackageDir, root.Name),
		MainClass:     main,
		Methods:       methods,
	}

	if content, err := os.ReadFile(req.Path); err == nil {
		qualified := BuilderQualifiedName(main, g.opts.PackageDir, root.Name)
		res.CallSite = RewriteCallSite(req.Path, string(content), req.Line, root.Name, qualified)
	}

	code := Render(main.Package, g.opts.PackageDir, root.Name, root.Detail, methods)
	if err := g.writeBuilder(id, res.BuilderPath, code); err != nil {
		return nil, err
	}

	code, err = Repair(ctx, res.BuilderPath, code, g.diags, g.opts.Repair)
	if err != nil {
		return nil, g.abort(id, err)
	}
	if !g.isCurrent(id) {
		return nil, ErrSuperseded
	}
	res.Source = code
	return res, nil
}

// writeBuilder writes code to path unless request id has been replaced. The
// lock keeps a newer request from starting between the check and the write.
func (g *Generator) writeBuilder(id, path, code string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current != id {
		return ErrSuperseded
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create builder directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return fmt.Errorf("failed to write builder: %w", err)
	}
	return nil
}

// RewriteCallSite replaces "new Target(" on line with "new TargetBuilder(" and
// imports the builder after the package line. It returns nil when the line
// holds no such construction.
func RewriteCallSite(path, text string, line int, target, builderQualified string) *CallSite {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return nil
	}

	construct := regexp.MustCompile(`new\s+` + regexp.QuoteMeta(target) + `\s*\(`)
	loc := construct.FindStringIndex(lines[line])
	if loc == nil {
		return nil
	}
	start := loc[0] + strings.Index(lines[line][loc[0]:], target)
	end := start + len(target)
	lines[line] = lines[line][:start] + BuilderName(target) + lines[line][end:]
	updated := strings.Join(lines, "\n")

	site := &CallSite{Path: path, Line: line, Updated: updated}

	imported := regexp.MustCompile(`(?m)^\s*import\s+` + regexp.QuoteMeta(builderQualified) + `\s*;`)
	if imported.MatchString(updated) {
		return site
	}
	pkg := packageLinePattern.FindStringIndex(updated)
	if pkg == nil {
		return site
	}
	pkgLine := strings.Count(updated[:pkg[1]], "\n")
	site.Import = builderQualified
	site.Updated = fix.ApplyEdits(updated, []fix.TextEdit{{
		Path: path,
		Line: pkgLine + 1,
		Text: fmt.Sprintf("\nimport %s;\n", builderQualified),
	}})
	return site
}

func (g *Generator) begin(ctx context.Context) (context.Context, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	g.current = uuid.New().String()
	g.cancel = cancel
	return ctx, g.current
}

func (g *Generator) finish(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current != id {
		return
	}
	g.cancel()
	g.current = ""
	g.cancel = nil
}

func (g *Generator) isCurrent(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current == id
}

// abort maps errors of a replaced request to ErrSuperseded.
func (g *Generator) abort(id string, err error) error {
	if !g.isCurrent(id) {
		return ErrSuperseded
	}
	return err
}

package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/javafx-support/internal/check"
	"github.com/mvp-joe/javafx-support/internal/hierarchy"
	"github.com/mvp-joe/javafx-support/internal/javasrc"
)

// Test Plan for Builder:
// - FindMainClass picks the Application subclass and its package
// - Render names size setter parameters and marks generic setters
// - Repair blanks safe-coded lines, drops comments and collapses empty lines
// - RewriteCallSite swaps the construction and imports the builder once
// - Generate writes the builder for the type under the cursor
// - A second request supersedes the first
// - A superseded request never writes its builder
// - ScanConstructions hints UI constructions without an existing builder

const projectRoot = "../../testdata/javafx"

// copyProject copies the fixture workspace so generated files stay out of it.
func copyProject(t *testing.T) string {
	t.Helper()

	src, err := filepath.Abs(projectRoot)
	require.NoError(t, err)
	dst := t.TempDir()

	err = filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, content, 0644)
	})
	require.NoError(t, err)
	return dst
}

func newWorkspace(t *testing.T, root string) *javasrc.Workspace {
	t.Helper()

	ws, err := javasrc.NewWorkspace(javasrc.Options{
		Roots:      []string{filepath.Join(root, "src", "main", "java"), filepath.Join(root, "lib")},
		PublicOnly: true,
	})
	require.NoError(t, err)
	t.Cleanup(ws.Close)

	_, err = ws.Index(context.Background(), nil)
	require.NoError(t, err)
	return ws
}

func controllerPath(root string) string {
	return filepath.Join(root, "src", "main", "java", "com", "example", "MainController.java")
}

func TestFindMainClass(t *testing.T) {
	t.Parallel()

	root, err := filepath.Abs(projectRoot)
	require.NoError(t, err)

	main, err := FindMainClass(root, nil)
	require.NoError(t, err)
	assert.Equal(t, "com.example", main.Package)
	assert.Equal(t, filepath.Join(root, "src", "main", "java", "com", "example", "MainApp.java"), main.Path)

	_, err = FindMainClass(t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrNoMainClass)
}

func TestRender(t *testing.T) {
	t.Parallel()

	code := Render("com.example", "", "Button", "javafx.scene.control", []hierarchy.MethodSignature{
		{MethodName: "setText", DefiningClassName: "Labeled", ParameterTypes: []string{"String"}},
		{MethodName: "setPrefSize", DefiningClassName: "Region", ParameterTypes: []string{"double", "double"}},
		{MethodName: "setEventHandler", DefiningClassName: "Node", ParameterTypes: []string{"EventType<T>", "EventHandler<? super T>"}},
		{MethodName: "setAnchors", DefiningClassName: "Pane", ParameterTypes: []string{"int", "int"}},
	})

	assert.True(t, strings.HasPrefix(code, "package com.example.jfxbuilder;\n"))
	assert.Contains(t, code, "import javafx.scene.control.*;\n")
	assert.NotContains(t, code, "import javafx.scene.control.Button;")
	assert.Contains(t, code, "    private Button in;\n")
	assert.Contains(t, code, "    public ButtonBuilder() { in = new Button(); }\n")
	assert.Contains(t, code, "    public ButtonBuilder text(String value) { in.setText(value); return this; }")
	assert.Contains(t, code, "    public ButtonBuilder prefSize(double width, double height) { in.setPrefSize(width, height); return this; }")
	assert.Contains(t, code, "    public <T extends Event> ButtonBuilder eventHandler(EventType<T> value1, EventHandler<? super T> value2) { in.setEventHandler(value1, value2); return this; }")
	assert.Contains(t, code, "    public ButtonBuilder anchors(int value1, int value2) { in.setAnchors(value1, value2); return this; }")
	assert.True(t, strings.HasSuffix(code, "    public Button build() { return in; }\n}\n"))

	custom := Render("com.example", "", "Gauge", "com.example.widgets", nil)
	assert.Contains(t, custom, "import com.example.widgets.Gauge;\n")
}

type fakeDiagnostics struct {
	mu    sync.Mutex
	calls int
	diags []check.Diagnostic
}

func (f *fakeDiagnostics) Diagnostics(ctx context.Context, path string) ([]check.Diagnostic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls == 1 {
		return f.diags, nil
	}
	return nil, nil
}

func TestRepair(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "LabelBuilder.java")
	code := "class LabelBuilder {\n\n    public LabelBuilder hidden(int value) { in.setHidden(value); return this; }\n\n    // generated\n    public LabelBuilder broken(X value) { in.setBroken(value); return this; }\n}\n"

	src := &fakeDiagnostics{diags: []check.Diagnostic{
		{Range: check.PointRange(2, 4), Code: "67108965"},
		{Range: check.PointRange(5, 4), Code: "16777218"},
		{Range: check.PointRange(99, 0), Code: "268435844"},
	}}

	out, err := Repair(context.Background(), path, code, src, RepairOptions{
		Retries:   3,
		Interval:  time.Millisecond,
		SafeCodes: DefaultSafeCodes,
	})
	require.NoError(t, err)
	assert.Equal(t, "class LabelBuilder {\n    public LabelBuilder broken(X value) { in.setBroken(value); return this; }\n}\n", out)
	assert.Equal(t, 3, src.calls)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(written))
}

func TestRepair_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "X.java")
	_, err := Repair(ctx, path, "x", &fakeDiagnostics{}, RepairOptions{Retries: 5, Interval: time.Hour})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRewriteCallSite(t *testing.T) {
	t.Parallel()

	text := "package com.example;\n\nclass A {\n    Node n = new Button (\"x\");\n}\n"

	site := RewriteCallSite("A.java", text, 3, "Button", "com.example.jfxbuilder.ButtonBuilder")
	require.NotNil(t, site)
	assert.Equal(t, "com.example.jfxbuilder.ButtonBuilder", site.Import)
	assert.Equal(t, "package com.example;\n\nimport com.example.jfxbuilder.ButtonBuilder;\n\nclass A {\n    Node n = new ButtonBuilder (\"x\");\n}\n", site.Updated)

	again := RewriteCallSite("A.java", strings.Replace(site.Updated, "ButtonBuilder (", "Button (", 1), 5, "Button", "com.example.jfxbuilder.ButtonBuilder")
	require.NotNil(t, again)
	assert.Empty(t, again.Import)
	assert.Equal(t, 1, strings.Count(again.Updated, "import com.example.jfxbuilder.ButtonBuilder;"))

	assert.Nil(t, RewriteCallSite("A.java", text, 0, "Button", "x.ButtonBuilder"))
	assert.Nil(t, RewriteCallSite("A.java", text, 42, "Button", "x.ButtonBuilder"))
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	root := copyProject(t)
	ws := newWorkspace(t, root)

	opts := DefaultOptions()
	gen := NewGenerator(ws, ws, nil, opts)

	res, err := gen.Generate(context.Background(), Request{
		WorkspaceRoot: root,
		Path:          controllerPath(root),
		Line:          13,
		Col:           27,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "Button", res.TargetClass)
	assert.Equal(t, "javafx.scene.control.Button", res.QualifiedName)
	assert.Equal(t, "ButtonBuilder", res.BuilderClass)
	assert.Len(t, res.Methods, 13)

	wantPath := filepath.Join(root, "src", "main", "java", "com", "example", "jfxbuilder", "ButtonBuilder.java")
	assert.Equal(t, wantPath, res.BuilderPath)
	written, err := os.ReadFile(wantPath)
	require.NoError(t, err)
	assert.Equal(t, res.Source, string(written))
	assert.NotContains(t, res.Source, "\n\n")
	assert.Contains(t, res.Source, "public ButtonBuilder defaultButton(boolean value) { in.setDefaultButton(value); return this; }")
	assert.Contains(t, res.Source, "public ButtonBuilder maxSize(double width, double height) { in.setMaxSize(width, height); return this; }")
	assert.NotContains(t, res.Source, "setSecret")
	assert.NotContains(t, res.Source, "setLayoutFlag")

	require.NotNil(t, res.CallSite)
	assert.Equal(t, "com.example.jfxbuilder.ButtonBuilder", res.CallSite.Import)
	assert.Contains(t, res.CallSite.Updated, `Button extra = new ButtonBuilder("Extra");`)
	assert.True(t, strings.HasPrefix(res.CallSite.Updated, "package com.example;\n\nimport com.example.jfxbuilder.ButtonBuilder;\n"))

	assert.True(t, BuilderExists(res.MainClass, opts.PackageDir, "Button"))
	assert.False(t, BuilderExists(res.MainClass, opts.PackageDir, "Label"))
}

func TestGenerate_NoType(t *testing.T) {
	t.Parallel()

	root := copyProject(t)
	ws := newWorkspace(t, root)
	gen := NewGenerator(ws, ws, nil, DefaultOptions())

	_, err := gen.Generate(context.Background(), Request{
		WorkspaceRoot: root,
		Path:          filepath.Join(root, "missing", "Nope.java"),
		Line:          0,
		Col:           0,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoType)

	_, err = gen.Generate(context.Background(), Request{
		WorkspaceRoot: root,
		Path:          filepath.Join(root, "src", "main", "java", "com", "example", "MainController.java"),
		Line:          0,
		Col:           0,
	})
	assert.ErrorIs(t, err, ErrNoType)
}

// blockingHierarchy blocks its first call until the context is cancelled.
type blockingHierarchy struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
}

func (b *blockingHierarchy) TypeHierarchy(ctx context.Context, uri string, line, col int) (*hierarchy.TypeHierarchyItem, error) {
	b.mu.Lock()
	b.calls++
	first := b.calls == 1
	b.mu.Unlock()

	if first {
		close(b.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &hierarchy.TypeHierarchyItem{Name: "Label", Detail: "javafx.scene.control", URI: "file:///Label.java"}, nil
}

type staticSymbols struct{}

func (staticSymbols) DocumentSymbols(ctx context.Context, uri string) ([]hierarchy.Symbol, error) {
	return []hierarchy.Symbol{{
		Kind: hierarchy.KindClass,
		Name: "Label",
		Children: []hierarchy.Symbol{
			{Kind: hierarchy.KindMethod, Name: "setText(String)"},
		},
	}}, nil
}

func TestGenerate_Superseded(t *testing.T) {
	t.Parallel()

	root := copyProject(t)
	types := &blockingHierarchy{started: make(chan struct{})}
	gen := NewGenerator(types, staticSymbols{}, nil, DefaultOptions())
	req := Request{WorkspaceRoot: root, Path: controllerPath(root), Line: 7, Col: 12}

	firstErr := make(chan error, 1)
	go func() {
		_, err := gen.Generate(context.Background(), req)
		firstErr <- err
	}()
	<-types.started

	res, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "LabelBuilder", res.BuilderClass)
	assert.Nil(t, res.CallSite)

	select {
	case err := <-firstErr:
		assert.True(t, errors.Is(err, ErrSuperseded))
	case <-time.After(5 * time.Second):
		t.Fatal("first request was not cancelled")
	}
}

func TestWriteBuilder_Superseded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gen := NewGenerator(nil, nil, nil, DefaultOptions())

	_, stale := gen.begin(context.Background())
	_, latest := gen.begin(context.Background())

	stalePath := filepath.Join(dir, "jfxbuilder", "StaleBuilder.java")
	assert.ErrorIs(t, gen.writeBuilder(stale, stalePath, "class StaleBuilder {}"), ErrSuperseded)
	assert.NoFileExists(t, stalePath)

	latestPath := filepath.Join(dir, "jfxbuilder", "LatestBuilder.java")
	require.NoError(t, gen.writeBuilder(latest, latestPath, "class LatestBuilder {}"))
	assert.FileExists(t, latestPath)

	gen.finish(latest)
	assert.ErrorIs(t, gen.writeBuilder(latest, latestPath, "again"), ErrSuperseded)
}

func TestScanConstructions(t *testing.T) {
	t.Parallel()

	root := copyProject(t)
	ws := newWorkspace(t, root)

	path := controllerPath(root)
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	diags, err := ScanConstructions(context.Background(), path, string(content), ws, "", nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, check.Range{StartLine: 13, StartCol: 27, EndLine: 13, EndCol: 33}, diags[0].Range)
	assert.Equal(t, check.SeverityHint, diags[0].Severity)
	assert.Equal(t, BuilderAvailableMessage, diags[0].Message)
	assert.Equal(t, check.SourceScene, diags[0].Source)

	diags, err = ScanConstructions(context.Background(), path, string(content), ws, "", func(target string) bool {
		return target == "Button"
	})
	require.NoError(t, err)
	assert.Empty(t, diags)

	app := filepath.Join(root, "src", "main", "java", "com", "example", "MainApp.java")
	appContent, err := os.ReadFile(app)
	require.NoError(t, err)
	diags, err = ScanConstructions(context.Background(), app, string(appContent), ws, "", nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestIsUIType(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUIType(hierarchy.Location{QualifiedName: "javafx.scene.control.Button"}, ""))
	assert.True(t, IsUIType(hierarchy.Location{URI: "jdt://contents/javafx.controls/javafx.scene.control/Button.class"}, ""))
	assert.True(t, IsUIType(hierarchy.Location{URI: "file:///lib/javafx/scene/Node.java"}, ""))
	assert.False(t, IsUIType(hierarchy.Location{URI: "file:///src/com/example/Model.java", QualifiedName: "com.example.Model"}, ""))
}

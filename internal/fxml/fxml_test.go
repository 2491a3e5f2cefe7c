package fxml

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/javafx-support/internal/discovery"
)

// Test Plan for FXML index:
// - Parse extracts fx:id elements in document order plus the controller
// - Controller path resolves onto the java source root
// - Views without fx:controller are valid and have empty controller fields
// - Duplicate ids are tolerated
// - Store hands out copies and supports upsert/remove/reset
// - Indexer.Scan indexes every view, skipping unreadable files
// - Refresh ignores files outside the source root; Forget removes entries

const mainView = `<?xml version="1.0" encoding="UTF-8"?>
<?import javafx.scene.control.*?>
<VBox xmlns:fx="http://javafx.com/fxml" fx:controller="com.example.MainController">
    <Button fx:id="okBtn" text="OK"/>
    <Label text="static"/>
    <Label fx:id="msgLbl"/>
</VBox>
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	root := "/work/app"
	desc := Parse(filepath.Join(root, "src", "main", "resources", "main.fxml"), root, []byte(mainView), "")

	require.Len(t, desc.Elements, 2)
	assert.Equal(t, Element{TagName: "Button", ID: "okBtn"}, desc.Elements[0])
	assert.Equal(t, Element{TagName: "Label", ID: "msgLbl"}, desc.Elements[1])
	assert.Equal(t, "com.example.MainController", desc.ControllerClassName)
	assert.True(t, desc.HasController())
	assert.True(t, strings.HasSuffix(filepath.ToSlash(desc.ControllerFilePath), "com/example/MainController.java"))
	assert.Equal(t, filepath.Join(root, "src", "main", "java", "com", "example", "MainController.java"), desc.ControllerFilePath)
}

func TestParse_NoController(t *testing.T) {
	t.Parallel()

	desc := Parse("/w/a.fxml", "/w", []byte(`<Pane><TextField fx:id="name"/></Pane>`), "")
	assert.False(t, desc.HasController())
	assert.Empty(t, desc.ControllerClassName)
	assert.Empty(t, desc.ControllerFilePath)
	assert.Equal(t, []Element{{TagName: "TextField", ID: "name"}}, desc.Elements)
}

func TestParse_DuplicatesAndEmpty(t *testing.T) {
	t.Parallel()

	desc := Parse("/w/a.fxml", "/w", []byte(`<Button fx:id="a"/><Label fx:id = "a"/>`), "")
	assert.Len(t, desc.Elements, 2)
	assert.Equal(t, "Button", desc.TagFor("a"))
	assert.Equal(t, DefaultTagName, desc.TagFor("missing"))
	assert.Equal(t, map[string]bool{"a": true}, desc.ElementIDs())

	empty := Parse("/w/b.fxml", "/w", nil, "")
	assert.NotNil(t, empty.Elements)
	assert.Empty(t, empty.Elements)
}

func TestResolveControllerPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("/w", "src", "main", "java", "Main.java"), ResolveControllerPath("/w", "Main", ""))
	assert.Equal(t, filepath.Join("/w", "app", "src", "a", "B.java"), ResolveControllerPath("/w", "a.B", "app/src"))
	assert.Empty(t, ResolveControllerPath("/w", "", ""))
}

func TestParseFile_ReadError(t *testing.T) {
	t.Parallel()

	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.fxml"), "/w", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read FXML file")
}

func TestStore(t *testing.T) {
	t.Parallel()

	s := NewStore()
	desc := ViewDescriptor{
		Path:               "/w/src/a.fxml",
		ControllerFilePath: "/w/src/main/java/A.java",
		Elements:           []Element{{TagName: "Button", ID: "ok"}},
	}
	s.Upsert(desc)
	assert.Equal(t, 1, s.Len())

	got, ok := s.Get("/w/src/./a.fxml")
	require.True(t, ok)
	got.Elements[0].ID = "mutated"

	again, _ := s.Get("/w/src/a.fxml")
	assert.Equal(t, "ok", again.Elements[0].ID)

	bound, ok := s.FindByControllerPath("/w/src/main/java/A.java")
	require.True(t, ok)
	assert.Equal(t, "/w/src/a.fxml", bound.Path)
	_, ok = s.FindByControllerPath("/w/src/main/java/B.java")
	assert.False(t, ok)

	s.Upsert(ViewDescriptor{Path: "/w/src/0.fxml"})
	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "/w/src/0.fxml", snap[0].Path)

	assert.True(t, s.Remove("/w/src/a.fxml"))
	assert.False(t, s.Remove("/w/src/a.fxml"))

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func newTestIndexer(t *testing.T, root string) *Indexer {
	t.Helper()
	d, err := discovery.New(root, []string{"**/*.fxml"}, []string{"build/**"})
	require.NoError(t, err)
	return NewIndexer(NewStore(), d, root, "src", "")
}

func TestIndexer_Scan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main", "resources", "main.fxml"), mainView)
	writeFile(t, filepath.Join(root, "src", "main", "resources", "other.fxml"), `<Pane/>`)
	writeFile(t, filepath.Join(root, "outside.fxml"), mainView)

	ix := newTestIndexer(t, root)

	var seen []string
	n, err := ix.Scan(context.Background(), func(path string) { seen = append(seen, path) })
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Len(t, seen, 3)
	assert.Equal(t, 2, ix.Store().Len())

	desc, ok := ix.Store().Get(filepath.Join(root, "src", "main", "resources", "main.fxml"))
	require.True(t, ok)
	assert.Len(t, desc.Elements, 2)
	assert.Equal(t, root, desc.WorkspaceRoot)
}

func TestIndexer_ScanCancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.fxml"), `<Pane/>`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestIndexer(t, root).Scan(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexer_RefreshAndForget(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	view := filepath.Join(root, "src", "a.fxml")
	writeFile(t, view, `<Pane fx:controller="a.A"><Button fx:id="one"/></Pane>`)

	ix := newTestIndexer(t, root)

	desc, ok := ix.Refresh(view)
	require.True(t, ok)
	assert.Len(t, desc.Elements, 1)

	writeFile(t, view, `<Pane fx:controller="a.A"><Button fx:id="one"/><Label fx:id="two"/></Pane>`)
	desc, ok = ix.Refresh(view)
	require.True(t, ok)
	assert.Len(t, desc.Elements, 2)

	_, ok = ix.Refresh(filepath.Join(root, "src", "a.java"))
	assert.False(t, ok)

	require.NoError(t, os.Remove(view))
	_, ok = ix.Refresh(view)
	assert.False(t, ok)
	_, stillIndexed := ix.Store().Get(view)
	assert.True(t, stillIndexed)

	assert.True(t, ix.Forget(view))
	assert.Equal(t, 0, ix.Store().Len())
}

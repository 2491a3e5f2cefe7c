package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Discovery:
// - Discover returns files matching include patterns, sorted
// - Ignored directories are skipped entirely
// - Root-level files match "**/" patterns
// - Matches rejects paths outside the root
// - Missing root yields no files and no error

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscover_IncludeAndIgnore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.fxml"), "")
	writeFile(t, filepath.Join(root, "src", "main", "resources", "b.fxml"), "")
	writeFile(t, filepath.Join(root, "src", "main", "resources", "a.fxml"), "")
	writeFile(t, filepath.Join(root, "src", "main", "java", "A.java"), "")
	writeFile(t, filepath.Join(root, "build", "copy.fxml"), "")

	d, err := New(root, []string{"**/*.fxml"}, []string{"build/**"})
	require.NoError(t, err)

	files, err := d.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "main.fxml"),
		filepath.Join(root, "src", "main", "resources", "a.fxml"),
		filepath.Join(root, "src", "main", "resources", "b.fxml"),
	}, files)
}

func TestMatches(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	d, err := New(root, []string{"**/*.java"}, []string{"target/**"})
	require.NoError(t, err)

	assert.True(t, d.Matches(filepath.Join(root, "src", "A.java")))
	assert.True(t, d.Matches("src/A.java"))
	assert.False(t, d.Matches(filepath.Join(root, "target", "A.java")))
	assert.False(t, d.Matches(filepath.Join(root, "src", "a.fxml")))
	assert.False(t, d.Matches(filepath.Join(filepath.Dir(root), "elsewhere", "A.java")))

	assert.True(t, d.Ignored(filepath.Join(root, "target")))
	assert.True(t, d.Ignored(filepath.Join(root, "target", "classes")))
	assert.False(t, d.Ignored(filepath.Join(root, "src")))
	assert.False(t, d.Ignored(filepath.Join(filepath.Dir(root), "target")))
}

func TestDiscover_MissingRoot(t *testing.T) {
	t.Parallel()

	d, err := New(filepath.Join(t.TempDir(), "nope"), []string{"**/*.fxml"}, nil)
	require.NoError(t, err)

	files, err := d.Discover()
	require.NoError(t, err)
	assert.Empty(t, files)
}

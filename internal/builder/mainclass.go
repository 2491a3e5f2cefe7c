// Package builder generates fluent Builder wrappers for JavaFX node types.
package builder

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mvp-joe/javafx-support/internal/discovery"
)

// ErrNoMainClass is returned when no JavaFX Application subclass exists.
var ErrNoMainClass = errors.New("main class not found")

// DefaultSourceGlob selects the files searched for the main class.
const DefaultSourceGlob = "src/**/*.java"

var (
	packagePattern     = regexp.MustCompile(`package\s+([^;]+);`)
	applicationPattern = regexp.MustCompile(`class\s+\w+\s+extends\s+(?:javafx\.application\.)?(Application)`)
)

// MainClass is the JavaFX application entry point of a workspace.
type MainClass struct {
	Package string `json:"package"`
	Path    string `json:"path"`
}

// Dir returns the directory holding the main class.
func (m MainClass) Dir() string {
	return filepath.Dir(m.Path)
}

// FindMainClass returns the first source file, in path order, that declares a
// package and a class extending Application.
func FindMainClass(root string, ignores []string) (MainClass, error) {
	d, err := discovery.New(root, []string{DefaultSourceGlob}, ignores)
	if err != nil {
		return MainClass{}, err
	}
	paths, err := d.Discover()
	if err != nil {
		return MainClass{}, err
	}

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warning: failed to read %s: %v", path, err)
			continue
		}
		text := string(content)
		m := packagePattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if applicationPattern.MatchString(text) {
			return MainClass{Package: strings.TrimSpace(m[1]), Path: path}, nil
		}
	}
	return MainClass{}, ErrNoMainClass
}

// Package discovery walks a project tree and selects files by glob pattern.
package discovery

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery handles file discovery with include and ignore glob patterns.
// Patterns are matched against slash-separated paths relative to the root.
type Discovery struct {
	rootDir        string
	includes       []compiledPattern
	ignorePatterns []compiledPattern
}

// New compiles the include and ignore patterns for rootDir.
func New(rootDir string, includes, ignores []string) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}

	for _, pattern := range includes {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.includes = append(d.includes, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignores {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// Root returns the directory the patterns are relative to.
func (d *Discovery) Root() string {
	return d.rootDir
}

// Discover walks the root and returns matching files sorted by path.
// A missing root yields no files rather than an error.
func (d *Discovery) Discover() ([]string, error) {
	files := []string{}

	if _, err := os.Stat(d.rootDir); os.IsNotExist(err) {
		return files, nil
	}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == d.rootDir {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if info.IsDir() {
			if path != d.rootDir && d.Ignored(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Matches(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, err
}

// Matches reports whether an absolute or root-relative path is included and
// not ignored.
func (d *Discovery) Matches(path string) bool {
	rel, ok := d.relative(path)
	if !ok {
		return false
	}
	if d.shouldIgnore(rel) {
		return false
	}
	return matchesAnyPattern(rel, d.includes)
}

// Ignored reports whether path, or a directory at path, matches an ignore
// pattern. Paths outside the root are never ignored.
func (d *Discovery) Ignored(path string) bool {
	rel, ok := d.relative(path)
	if !ok {
		return false
	}
	return d.shouldIgnore(rel)
}

func (d *Discovery) relative(path string) (string, bool) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path)), true
	}
	rel, err := filepath.Rel(d.rootDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	if matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// A directory such as "build" should match pattern "build/**"
	return matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// "**/*.fxml" should also match "main.fxml" at the root.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}

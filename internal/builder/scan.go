package builder

import (
	"context"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/mvp-joe/javafx-support/internal/check"
	"github.com/mvp-joe/javafx-support/internal/hierarchy"
	"github.com/mvp-joe/javafx-support/internal/javasrc"
)

// DefaultUITypeMarker identifies JavaFX scene graph types.
const DefaultUITypeMarker = "javafx.scene"

// BuilderAvailableMessage is the hint shown on eligible constructions.
const BuilderAvailableMessage = "Can generate builder class"

var constructionPattern = regexp.MustCompile(`new\s+([\w.]+)\s*\(`)

// TypeResolver finds the declaration of the type named at a position.
type TypeResolver interface {
	TypeDefinition(ctx context.Context, uri string, line, col int) ([]hierarchy.Location, error)
}

// IsUIType reports whether loc is declared in a package under marker.
func IsUIType(loc hierarchy.Location, marker string) bool {
	if marker == "" {
		marker = DefaultUITypeMarker
	}
	if strings.HasPrefix(loc.QualifiedName, marker+".") {
		return true
	}
	return strings.Contains(loc.URI, marker) || strings.Contains(loc.URI, strings.ReplaceAll(marker, ".", "/"))
}

// BuilderExists reports whether a builder for target was already generated.
func BuilderExists(main MainClass, packageDir, target string) bool {
	_, err := os.Stat(BuilderPath(main, packageDir, target))
	return err == nil
}

// ScanConstructions emits a hint for the first construction of a UI type on
// each line of text, skipping types for which exists reports a builder.
func ScanConstructions(ctx context.Context, path, text string, types TypeResolver, marker string, exists func(target string) bool) ([]check.Diagnostic, error) {
	uri := javasrc.PathToURI(path)
	diags := []check.Diagnostic{}

	for i, line := range strings.Split(text, "\n") {
		m := constructionPattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return diags, err
		}

		name := line[m[2]:m[3]]
		start := m[2]
		if dot := strings.LastIndex(name, "."); dot >= 0 {
			start += dot + 1
			name = name[dot+1:]
		}
		if exists != nil && exists(name) {
			continue
		}

		locs, err := types.TypeDefinition(ctx, uri, i, start+1)
		if err != nil {
			if ctx.Err() != nil {
				return diags, ctx.Err()
			}
			log.Printf("Warning: failed to resolve %s at %s:%d: %v", name, path, i+1, err)
			continue
		}
		if len(locs) == 0 || !IsUIType(locs[0], marker) {
			continue
		}

		diags = append(diags, check.Diagnostic{
			Path:     path,
			Range:    check.Range{StartLine: i, StartCol: start, EndLine: i, EndCol: start + len(name)},
			Severity: check.SeverityHint,
			Message:  BuilderAvailableMessage,
			Code:     check.CodeBuilderAvailable,
			Source:   check.SourceScene,
		})
	}
	return diags, nil
}

package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mvp-joe/javafx-support/internal/check"
	"github.com/mvp-joe/javafx-support/internal/fix"
	"github.com/mvp-joe/javafx-support/internal/watcher"
)

// FixKind names one source generator.
type FixKind string

const (
	FixMissingFields FixKind = "missing_fields"
	FixField         FixKind = "field"
	FixInitialize    FixKind = "initialize"
	FixAccessors     FixKind = "accessors"
)

var (
	// ErrUnknownFix is returned for a FixKind no generator handles.
	ErrUnknownFix = errors.New("unknown fix kind")

	// ErrNoView is returned when a fix needs a view and none binds the file.
	ErrNoView = errors.New("no view is bound to this controller")

	// ErrNoElement is returned by FixField for an fx:id the view lacks.
	ErrNoElement = errors.New("no element with this fx:id in the view")
)

// ParseFixKind accepts the snake_case and kebab-case spellings.
func ParseFixKind(name string) (FixKind, error) {
	switch name {
	case "missing_fields", "missing-fields":
		return FixMissingFields, nil
	case "field":
		return FixField, nil
	case "initialize":
		return FixInitialize, nil
	case "accessors":
		return FixAccessors, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFix, name)
}

// FixResult holds the edits for one fix and the text they produce.
type FixResult struct {
	Path    string         `json:"path"`
	Kind    FixKind        `json:"kind"`
	Edits   []fix.TextEdit `json:"edits"`
	Applied bool           `json:"applied"`
	Text    string         `json:"text,omitempty"`
}

// FixTarget selects what a fix applies to. Line is the 0-indexed property
// field line for FixAccessors; ID is the fx:id for FixField.
type FixTarget struct {
	Line int
	ID   string
}

// Fix computes the edits of kind for the file at path.
func (s *Session) Fix(path string, kind FixKind, target FixTarget) (*FixResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := string(content)
	indent := s.cfg.Indent()

	var edits []fix.TextEdit
	switch kind {
	case FixMissingFields:
		desc, ok := s.View(path)
		if !ok {
			return nil, fmt.Errorf("%s: %w", path, ErrNoView)
		}
		edits, err = fix.AddAllMissingFields(desc, path, text, indent)
	case FixField:
		desc, ok := s.View(path)
		if !ok {
			return nil, fmt.Errorf("%s: %w", path, ErrNoView)
		}
		actions := fix.QuickFixes(desc, path, text, check.DiagnoseController(desc, path, text), indent)
		edits, err = fieldFix(desc.ElementIDs(), actions, target.ID)
	case FixInitialize:
		edits, err = fix.AddInitializeMethod(path, text, indent)
	case FixAccessors:
		edits, err = fix.GeneratePropertyAccessors(path, text, target.Line, indent)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFix, kind)
	}
	if err != nil {
		return nil, err
	}

	return &FixResult{Path: path, Kind: kind, Edits: edits, Text: fix.ApplyEdits(text, edits)}, nil
}

// ApplyFix computes the fix, writes the result and refreshes the file's
// diagnostics.
func (s *Session) ApplyFix(ctx context.Context, path string, kind FixKind, target FixTarget) (*FixResult, error) {
	res, err := s.Fix(path, kind, target)
	if err != nil {
		return nil, err
	}
	if len(res.Edits) == 0 {
		return res, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(res.Text), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	res.Applied = true

	s.HandleEvents(ctx, []watcher.Event{{Path: path, Op: watcher.OpChange}})
	return res, nil
}

// fieldFix picks the edits of the quick fix for id. A field that is already
// declared needs no edits.
func fieldFix(ids map[string]bool, actions []fix.Action, id string) ([]fix.TextEdit, error) {
	if !ids[id] {
		return nil, fmt.Errorf("%w: %q", ErrNoElement, id)
	}
	for _, a := range actions {
		if got, ok := check.ParseMissingFieldID(a.Diagnostic.Message); ok && got == id {
			return a.Edits, nil
		}
	}
	return []fix.TextEdit{}, nil
}

// Assists are the quick fixes and code lenses of one controller.
type Assists struct {
	QuickFixes []fix.Action `json:"quick_fixes"`
	Lenses     []fix.Lens   `json:"lenses"`
}

// Assists returns the quick fixes for the missing-field diagnostics of the
// controller at path, plus its code lenses. A file no view binds has none.
func (s *Session) Assists(path string) (*Assists, error) {
	out := &Assists{QuickFixes: []fix.Action{}, Lenses: []fix.Lens{}}
	desc, ok := s.View(path)
	if !ok {
		return out, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := string(content)

	out.QuickFixes = fix.QuickFixes(desc, path, text, s.fields.Get(path), s.cfg.Indent())
	out.Lenses = fix.CodeLenses(desc, text)
	return out, nil
}

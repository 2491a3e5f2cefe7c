package fix

import (
	"fmt"

	"github.com/mvp-joe/javafx-support/internal/check"
	"github.com/mvp-joe/javafx-support/internal/fxml"
	"github.com/mvp-joe/javafx-support/internal/javatext"
)

// KindQuickFix is the action kind of every quick fix.
const KindQuickFix = "quickfix"

// Lens commands.
const (
	CommandAddAllMissingFields = "fxsupport.addAllMissingFields"
	CommandAddInitializeMethod = "fxsupport.addInitializeMethod"
)

// Action is a quick fix attached to one diagnostic.
type Action struct {
	Title      string           `json:"title"`
	Kind       string           `json:"kind"`
	Edits      []TextEdit       `json:"edits"`
	Preferred  bool             `json:"preferred"`
	Diagnostic check.Diagnostic `json:"diagnostic"`
}

// Lens is an actionable annotation shown above a line.
type Lens struct {
	Line    int      `json:"line"`
	Title   string   `json:"title"`
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// QuickFixes returns one insert-field action per missing-field diagnostic.
// The field goes on the diagnostic's line, indented like the three lines
// below it.
func QuickFixes(desc fxml.ViewDescriptor, path, text string, diags []check.Diagnostic, cfg javatext.IndentConfig) []Action {
	lines := javatext.SplitLines(text)
	actions := []Action{}

	for _, d := range diags {
		id, ok := check.ParseMissingFieldID(d.Message)
		if !ok {
			continue
		}
		line := d.Range.StartLine
		indent := javatext.CalculateIndentation(lines, line, line+3, cfg)

		actions = append(actions, Action{
			Title: fmt.Sprintf("Add @FXML field for %s", id),
			Kind:  KindQuickFix,
			Edits: []TextEdit{{
				Path: path,
				Line: line,
				Text: FieldDeclaration(indent, desc.TagFor(id), id),
			}},
			Preferred:  true,
			Diagnostic: d,
		})
	}
	return actions
}

// CodeLenses returns the "add all missing fields" lens below the class
// declaration and the "add initialize" lens on the closing line.
func CodeLenses(desc fxml.ViewDescriptor, text string) []Lens {
	lenses := []Lens{}

	missing := check.CheckFields(desc, text).MissingFields
	if len(missing) > 0 {
		if decl := javatext.FindClassDeclarationLine(text); decl != javatext.NotFound {
			ids := make([]string, 0, len(missing))
			for _, el := range missing {
				ids = append(ids, el.ID)
			}
			lenses = append(lenses, Lens{
				Line:    decl + 1,
				Title:   fmt.Sprintf("Add all missing @FXML fields (%d)", len(missing)),
				Command: CommandAddAllMissingFields,
				Args:    ids,
			})
		}
	}

	if !javatext.HasInitializeMethod(text) {
		if end := javatext.FindClassEndLine(text); end != javatext.NotFound {
			lenses = append(lenses, Lens{
				Line:    end,
				Title:   "Add public void initialize() method",
				Command: CommandAddInitializeMethod,
			})
		}
	}

	return lenses
}

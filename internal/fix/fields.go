package fix

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/javafx-support/internal/check"
	"github.com/mvp-joe/javafx-support/internal/fxml"
	"github.com/mvp-joe/javafx-support/internal/javatext"
)

const initializeHint = "// Hint: initialize() will be called when the associated FXML has been completely loaded."

// FieldDeclaration renders one @FXML field followed by a blank line.
func FieldDeclaration(indent, tagName, id string) string {
	return fmt.Sprintf("%s@FXML\n%sprivate %s %s;\n\n", indent, indent, tagName, id)
}

// InitializeMethod renders the initialize() stub.
func InitializeMethod(indent string) string {
	return fmt.Sprintf("\n%spublic void initialize() {\n%s%s%s\n%s}\n", indent, indent, indent, initializeHint, indent)
}

// memberIndent infers the indentation of class members from the lines right
// after the declaration.
func memberIndent(lines []string, decl int, cfg javatext.IndentConfig) string {
	return javatext.CalculateIndentation(lines, decl+1, decl+4, cfg)
}

// AddAllMissingFields inserts every missing @FXML field after the class
// declaration line as a single edit. No edit is returned when nothing is
// missing.
func AddAllMissingFields(desc fxml.ViewDescriptor, path, text string, cfg javatext.IndentConfig) ([]TextEdit, error) {
	decl := javatext.FindClassDeclarationLine(text)
	if decl == javatext.NotFound {
		return nil, ErrNoClass
	}

	missing := check.CheckFields(desc, text).MissingFields
	if len(missing) == 0 {
		return []TextEdit{}, nil
	}

	indent := memberIndent(javatext.SplitLines(text), decl, cfg)
	var b strings.Builder
	for _, el := range missing {
		b.WriteString(FieldDeclaration(indent, el.TagName, el.ID))
	}

	return []TextEdit{{Path: path, Line: decl + 1, Text: b.String()}}, nil
}

// AddInitializeMethod inserts the initialize() stub before the class closing
// brace.
func AddInitializeMethod(path, text string, cfg javatext.IndentConfig) ([]TextEdit, error) {
	span, ok := javatext.FindClassSpan(text)
	if !ok {
		return nil, ErrNoClass
	}
	if javatext.HasInitializeMethod(text) {
		return nil, fmt.Errorf("initialize(): %w", ErrAlreadyPresent)
	}

	indent := memberIndent(javatext.SplitLines(text), span.DeclarationLine, cfg)
	return []TextEdit{{Path: path, Line: span.EndLine, Text: InitializeMethod(indent)}}, nil
}

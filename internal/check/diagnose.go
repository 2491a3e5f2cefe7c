package check

import (
	"fmt"

	"github.com/mvp-joe/javafx-support/internal/fxml"
	"github.com/mvp-joe/javafx-support/internal/javatext"
)

// DiagnoseController reports orphan fields over their whole declaration and
// missing fields on the line after the class declaration. Missing fields are
// not reported when no class declaration can be found.
func DiagnoseController(desc fxml.ViewDescriptor, path, text string) []Diagnostic {
	result := CheckFields(desc, text)
	diags := []Diagnostic{}

	orphans := make(map[string]bool, len(result.OrphanFieldIDs))
	for _, id := range result.OrphanFieldIDs {
		orphans[id] = true
	}
	// Ranges come from the field matches; CheckFields only keeps the ids.
	for _, field := range javatext.AnnotatedFields(text) {
		if !orphans[field.ID] {
			continue
		}
		end := field.Offset + field.Length
		diags = append(diags, Diagnostic{
			Path: path,
			Range: Range{
				StartLine: field.Line,
				StartCol:  javatext.ColumnAtOffset(text, field.Offset),
				EndLine:   javatext.LineAtOffset(text, end),
				EndCol:    javatext.ColumnAtOffset(text, end),
			},
			Severity: SeverityWarning,
			Message:  OrphanFieldMessage(field.ID),
			Code:     CodeOrphanField,
			Source:   SourceFxID,
		})
	}

	decl := javatext.FindClassDeclarationLine(text)
	if decl == javatext.NotFound {
		return diags
	}
	for _, el := range result.MissingFields {
		diags = append(diags, Diagnostic{
			Path:     path,
			Range:    PointRange(decl+1, 0),
			Severity: SeverityWarning,
			Message:  MissingFieldMessage(el.ID),
			Code:     CodeMissingField,
			Source:   SourceFxID,
		})
	}

	return diags
}

// DiagnoseView reports a view with no fx:controller, or whose controller
// source file does not exist.
func DiagnoseView(desc fxml.ViewDescriptor, exists func(path string) bool) []Diagnostic {
	var msg, code string
	switch {
	case !desc.HasController():
		msg, code = "Missing fx:controller", CodeMissingController
	case !exists(desc.ControllerFilePath):
		msg, code = fmt.Sprintf("Missing %s", desc.ControllerFilePath), CodeMissingControllerFile
	default:
		return nil
	}

	return []Diagnostic{{
		Path:     desc.Path,
		Range:    PointRange(0, 0),
		Severity: SeverityWarning,
		Message:  msg,
		Code:     code,
		Source:   SourceFxml,
	}}
}

// Package check cross-references FXML views against their controller sources
// and turns mismatches into diagnostics.
package check

import (
	"github.com/mvp-joe/javafx-support/internal/fxml"
	"github.com/mvp-joe/javafx-support/internal/javatext"
)

// FieldPresenceResult is the outcome of one controller check.
type FieldPresenceResult struct {
	// MissingFields are view elements with no @FXML field, in view order.
	MissingFields []fxml.Element `json:"missing_fields"`
	// OrphanFieldIDs are @FXML fields with no matching fx:id, in source order.
	OrphanFieldIDs []string `json:"orphan_field_ids"`
}

// Clean reports whether view and controller agree.
func (r FieldPresenceResult) Clean() bool {
	return len(r.MissingFields) == 0 && len(r.OrphanFieldIDs) == 0
}

// CheckFields compares the view's fx:id elements to the controller's
// annotated fields. It is pure; equal inputs give equal results.
func CheckFields(desc fxml.ViewDescriptor, controllerText string) FieldPresenceResult {
	result := FieldPresenceResult{
		MissingFields:  []fxml.Element{},
		OrphanFieldIDs: []string{},
	}

	for _, el := range desc.Elements {
		if !javatext.HasFxmlField(controllerText, el.ID) {
			result.MissingFields = append(result.MissingFields, el)
		}
	}

	ids := desc.ElementIDs()
	for _, field := range javatext.AnnotatedFields(controllerText) {
		if !ids[field.ID] {
			result.OrphanFieldIDs = append(result.OrphanFieldIDs, field.ID)
		}
	}

	return result
}

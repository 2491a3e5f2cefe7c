package check

import (
	"fmt"
	"regexp"
	"strings"
)

// Severity mirrors the LSP diagnostic severities.
type Severity string

const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
	SeverityHint        Severity = "hint"
)

// Range is a 0-indexed line/column span.
type Range struct {
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
}

// PointRange is an empty range at line:col.
func PointRange(line, col int) Range {
	return Range{StartLine: line, StartCol: col, EndLine: line, EndCol: col}
}

// Diagnostic is one problem reported against a file.
type Diagnostic struct {
	Path     string   `json:"path"`
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Code     string   `json:"code,omitempty"`
	Source   string   `json:"source"`
}

// Diagnostic sources, also used as collection names.
const (
	SourceFxml     = "fxml"
	SourceFxID     = "fxid"
	SourceScene    = "scene"
	SourceProperty = "property"
)

// Diagnostic codes.
const (
	CodeMissingController     = "missing-controller"
	CodeMissingControllerFile = "missing-controller-file"
	CodeMissingField          = "missing-field"
	CodeOrphanField           = "orphan-field"
	CodeBuilderAvailable      = "builder-available"
	CodeAccessorsAvailable    = "accessors-available"
)

// MissingFieldPrefix starts every missing-field message. Quick fixes are
// dispatched on it.
const MissingFieldPrefix = "Missing @FXML field for fx:id="

var fxIDInMessage = regexp.MustCompile(`fx:id="([^"]+)"`)

// MissingFieldMessage formats the missing-field diagnostic text.
func MissingFieldMessage(id string) string {
	return fmt.Sprintf(`%s"%s"`, MissingFieldPrefix, id)
}

// OrphanFieldMessage formats the orphan-field diagnostic text.
func OrphanFieldMessage(id string) string {
	return fmt.Sprintf(`fx:id="%s" does not exist in the FXML file.`, id)
}

// IsMissingField reports whether msg is a missing-field diagnostic.
func IsMissingField(msg string) bool {
	return strings.HasPrefix(msg, MissingFieldPrefix)
}

// ParseMissingFieldID extracts the id from a missing-field message.
func ParseMissingFieldID(msg string) (string, bool) {
	if !IsMissingField(msg) {
		return "", false
	}
	m := fxIDInMessage.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	return m[1], true
}

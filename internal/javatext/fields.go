package javatext

import (
	"regexp"
)

// fieldPattern matches "@FXML <modifier> <type> <name>;" across whitespace and
// newlines.
var fieldPattern = regexp.MustCompile(`@FXML\s+\S+\s+\S+\s+(\w+)\s*;`)

var initializePattern = regexp.MustCompile(`public\s+void\s+initialize\s*\(\s*\)`)

// FieldMatch is one annotated field declaration found in controller source.
type FieldMatch struct {
	ID     string
	Offset int // byte offset of the @FXML marker
	Length int // byte length of the whole declaration
	Line   int // 0-indexed line of the marker
}

// HasFxmlField reports whether text declares an @FXML field named id.
func HasFxmlField(text, id string) bool {
	if id == "" {
		return false
	}
	pattern, err := regexp.Compile(`@FXML\s+\S+\s+\S+\s+` + regexp.QuoteMeta(id) + `\s*;`)
	if err != nil {
		return false
	}
	return pattern.MatchString(text)
}

// AnnotatedFields returns every @FXML field declaration in document order.
func AnnotatedFields(text string) []FieldMatch {
	var fields []FieldMatch
	for _, loc := range fieldPattern.FindAllStringSubmatchIndex(text, -1) {
		fields = append(fields, FieldMatch{
			ID:     text[loc[2]:loc[3]],
			Offset: loc[0],
			Length: loc[1] - loc[0],
			Line:   LineAtOffset(text, loc[0]),
		})
	}
	return fields
}

// HasInitializeMethod reports whether a public no-arg initialize is declared.
func HasInitializeMethod(text string) bool {
	return initializePattern.MatchString(text)
}

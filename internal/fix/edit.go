// Package fix produces the edits behind quick fixes, code lenses and the
// generate commands for controller sources.
package fix

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNoClass is returned when the source has no usable class declaration.
	ErrNoClass = errors.New("class definition not found")

	// ErrAlreadyPresent is returned when the code to insert already exists.
	ErrAlreadyPresent = errors.New("already present")

	// ErrNotProperty is returned when a line is not a JavaFX property field.
	ErrNotProperty = errors.New("line is not a JavaFX property declaration")
)

// TextEdit inserts Text at the start of Line (0-indexed). A line past the end
// of the document appends.
type TextEdit struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// ApplyEdits applies insertions against the original line numbers of text.
// Edits on the same line keep their given order.
func ApplyEdits(text string, edits []TextEdit) string {
	if len(edits) == 0 {
		return text
	}

	sorted := append([]TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Line < sorted[j].Line })

	starts := lineStarts(text)
	var b strings.Builder
	b.Grow(len(text))

	prev := 0
	padded := strings.HasSuffix(text, "\n") || text == ""
	for _, e := range sorted {
		off := len(text)
		if e.Line <= 0 {
			off = 0
		} else if e.Line < len(starts) {
			off = starts[e.Line]
		}
		if off < prev {
			off = prev
		}
		b.WriteString(text[prev:off])
		if off == len(text) && !padded {
			b.WriteString("\n")
			padded = true
		}
		b.WriteString(e.Text)
		prev = off
	}
	b.WriteString(text[prev:])
	return b.String()
}

func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && i+1 < len(text) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

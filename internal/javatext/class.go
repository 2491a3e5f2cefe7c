// Package javatext provides lightweight, line-oriented analysis of Java
// controller source text: locating the class body, inferring indentation and
// matching @FXML field declarations.
//
// None of these helpers is a Java parser. They are pattern based and assume
// a single top-level class of interest per file, which holds for JavaFX
// controllers. Absent data is reported with NotFound or empty results, never
// with an error or panic.
package javatext

import (
	"regexp"
	"strings"
)

// NotFound is returned by the line finders when no class can be located.
const NotFound = -1

// classPattern matches a class declaration with a capitalized identifier.
var classPattern = regexp.MustCompile(`\bclass\s+[A-Z]\w*`)

// ClassSpan is the line range of the first class declaration in a source text.
// Lines are 0-indexed.
type ClassSpan struct {
	DeclarationLine int
	EndLine         int
}

// SplitLines splits text on newlines, dropping a trailing carriage return from
// each line so CRLF files measure the same as LF files.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// FindClassDeclarationLine returns the line of the first class declaration, or
// NotFound. A class whose body opens and closes on the declaration line itself
// (class X {}) is reported as NotFound.
func FindClassDeclarationLine(text string) int {
	lines := SplitLines(text)
	decl := firstClassLine(lines)
	if decl == NotFound {
		return NotFound
	}
	if closesOnDeclaration(lines[decl]) {
		return NotFound
	}
	return decl
}

// FindClassEndLine returns the line holding the closing brace of the first
// class declaration, or NotFound when there is no class, the body never
// closes, or it only closes on the declaration line.
func FindClassEndLine(text string) int {
	lines := SplitLines(text)
	decl := firstClassLine(lines)
	if decl == NotFound {
		return NotFound
	}
	return endLineFrom(lines, decl)
}

// FindClassSpan returns both lines of the first class. ok is false unless both
// were found.
func FindClassSpan(text string) (ClassSpan, bool) {
	lines := SplitLines(text)
	decl := firstClassLine(lines)
	if decl == NotFound {
		return ClassSpan{DeclarationLine: NotFound, EndLine: NotFound}, false
	}
	end := endLineFrom(lines, decl)
	if end == NotFound {
		return ClassSpan{DeclarationLine: NotFound, EndLine: NotFound}, false
	}
	return ClassSpan{DeclarationLine: decl, EndLine: end}, true
}

func firstClassLine(lines []string) int {
	for i, line := range lines {
		if classPattern.MatchString(line) {
			return i
		}
	}
	return NotFound
}

func closesOnDeclaration(line string) bool {
	opens := strings.Count(line, "{")
	return opens > 0 && opens == strings.Count(line, "}")
}

// endLineFrom tracks cumulative brace counts starting at the declaration line.
func endLineFrom(lines []string, decl int) int {
	opens, closes := 0, 0
	for i := decl; i < len(lines); i++ {
		opens += strings.Count(lines[i], "{")
		closes += strings.Count(lines[i], "}")
		if opens == 0 || opens != closes {
			continue
		}
		if i == decl {
			// Empty body on the declaration line.
			return NotFound
		}
		return i
	}
	return NotFound
}

// LineAtOffset returns the 0-indexed line containing the byte offset.
func LineAtOffset(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n")
}

// ColumnAtOffset returns the 0-indexed byte column of offset within its line.
func ColumnAtOffset(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	return offset - (strings.LastIndex(text[:offset], "\n") + 1)
}

package javatext

import "strings"

// IndentConfig mirrors the editor settings that control indentation.
type IndentConfig struct {
	TabSize      int
	InsertSpaces bool
}

// DefaultIndentConfig returns the fallback used when no configuration is set.
func DefaultIndentConfig() IndentConfig {
	return IndentConfig{TabSize: 4, InsertSpaces: true}
}

// Unit returns the configured single indentation level.
func (c IndentConfig) Unit() string {
	if !c.InsertSpaces {
		return "\t"
	}
	size := c.TabSize
	if size <= 0 {
		size = DefaultIndentConfig().TabSize
	}
	return strings.Repeat(" ", size)
}

// CalculateIndentation infers the indentation unit used by lines[start:end].
//
// The unit length is the smallest positive leading-whitespace run among
// non-blank lines in the window. Its character is decided by majority vote
// between space-led and tab-led lines, with ties going to the configured
// preference. A window without indented lines yields cfg.Unit().
func CalculateIndentation(lines []string, start, end int, cfg IndentConfig) string {
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}

	spaceLines, tabLines := 0, 0
	minSpaces, minTabs := 0, 0
	for i := start; i < end; i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[0]
		if lead != ' ' && lead != '\t' {
			continue
		}
		// Only the leading character's own run counts; "\t    " is one tab.
		run := leadingRun(line, lead)
		if lead == '\t' {
			tabLines++
			if minTabs == 0 || run < minTabs {
				minTabs = run
			}
			continue
		}
		spaceLines++
		if minSpaces == 0 || run < minSpaces {
			minSpaces = run
		}
	}

	switch {
	case spaceLines == 0 && tabLines == 0:
		return cfg.Unit()
	case spaceLines > tabLines, spaceLines == tabLines && cfg.InsertSpaces:
		return strings.Repeat(" ", minSpaces)
	default:
		return strings.Repeat("\t", minTabs)
	}
}

func leadingRun(line string, c byte) int {
	n := 0
	for n < len(line) && line[n] == c {
		n++
	}
	return n
}

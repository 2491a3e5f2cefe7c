package builder

import (
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mvp-joe/javafx-support/internal/check"
)

// DefaultSafeCodes are compiler diagnostic ids whose offending builder line
// can be dropped: calls to methods that are not visible from the builder.
var DefaultSafeCodes = []string{"67108965", "268435844"}

var blankRuns = regexp.MustCompile(`\n+`)

// DiagnosticSource reports compiler diagnostics for a file on disk.
type DiagnosticSource interface {
	Diagnostics(ctx context.Context, path string) ([]check.Diagnostic, error)
}

// RepairOptions control the post-write repair loop.
type RepairOptions struct {
	Retries   int
	Interval  time.Duration
	SafeCodes []string
}

// DefaultRepairOptions polls twenty times, half a second apart.
func DefaultRepairOptions() RepairOptions {
	return RepairOptions{
		Retries:   20,
		Interval:  500 * time.Millisecond,
		SafeCodes: append([]string(nil), DefaultSafeCodes...),
	}
}

// Repair polls src for diagnostics against the builder written at path,
// blanks lines flagged with a safe code, drops comment lines and rewrites the
// file. Empty lines are collapsed at the end. A nil src skips polling.
func Repair(ctx context.Context, path, code string, src DiagnosticSource, opts RepairOptions) (string, error) {
	safe := make(map[string]bool, len(opts.SafeCodes))
	for _, c := range opts.SafeCodes {
		safe[c] = true
	}

	for i := 0; src != nil && i < opts.Retries; i++ {
		select {
		case <-ctx.Done():
			return code, ctx.Err()
		case <-time.After(opts.Interval):
		}

		diags, err := src.Diagnostics(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return code, ctx.Err()
			}
			continue
		}
		if len(diags) == 0 {
			continue
		}

		code = removeFlagged(code, diags, safe)
		if err := os.WriteFile(path, []byte(code), 0644); err != nil {
			return code, err
		}
	}

	code = blankRuns.ReplaceAllString(code, "\n")
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return code, err
	}
	return code, nil
}

func removeFlagged(code string, diags []check.Diagnostic, safe map[string]bool) string {
	lines := strings.Split(code, "\n")
	for _, d := range diags {
		if !safe[d.Code] {
			continue
		}
		if l := d.Range.StartLine; l >= 0 && l < len(lines) {
			lines[l] = ""
		}
	}

	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/javafx-support/internal/check"
	"github.com/mvp-joe/javafx-support/internal/workspace"
)

// ErrProblemsFound makes check exit non-zero when errors or warnings remain.
var ErrProblemsFound = errors.New("problems found")

var (
	checkJSONFlag  bool
	checkHintsFlag bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report FXML and controller problems",
	Long: `Check scans every FXML view and its controller and reports:
  - views without fx:controller
  - fx:controller classes with no source file
  - fx:id elements without an @FXML field in the controller
  - @FXML fields without a matching fx:id element

Hints (builder and accessor suggestions) are listed with --hints.
The command exits non-zero when any error or warning is reported.

Examples:
  fxsupport check
  fxsupport check --json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkJSONFlag, "json", false, "Print diagnostics as JSON")
	checkCmd.Flags().BoolVar(&checkHintsFlag, "hints", false, "Include hint diagnostics")
}

func runCheck(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	session, err := openSession(cmd.Context(), root, progressWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer session.Close()

	return executeCheck(session, cmd.OutOrStdout(), checkJSONFlag, checkHintsFlag)
}

// checkReport is the --json output.
type checkReport struct {
	Diagnostics []check.Diagnostic `json:"diagnostics"`
	Total       int                `json:"total"`
	Problems    int                `json:"problems"`
}

func executeCheck(session *workspace.Session, out io.Writer, asJSON, hints bool) error {
	diags := []check.Diagnostic{}
	problems := 0
	for _, d := range session.AllDiagnostics() {
		if isProblem(d) {
			problems++
		} else if !hints {
			continue
		}
		diags = append(diags, d)
	}
	sortDiagnostics(diags)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(checkReport{Diagnostics: diags, Total: len(diags), Problems: problems}); err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
	} else {
		for _, d := range diags {
			fmt.Fprintln(out, formatDiagnostic(session.Root(), d))
		}
		if problems == 0 {
			fmt.Fprintln(out, "✓ No problems found")
		} else {
			fmt.Fprintf(out, "\n%d problem(s) found\n", problems)
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d %w", problems, ErrProblemsFound)
	}
	return nil
}

func isProblem(d check.Diagnostic) bool {
	return d.Severity == check.SeverityError || d.Severity == check.SeverityWarning
}

func sortDiagnostics(diags []check.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Range.StartLine != b.Range.StartLine {
			return a.Range.StartLine < b.Range.StartLine
		}
		return a.Range.StartCol < b.Range.StartCol
	})
}

// formatDiagnostic renders file:line:col with 1-indexed positions.
func formatDiagnostic(root string, d check.Diagnostic) string {
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]", relPath(root, d.Path), d.Range.StartLine+1, d.Range.StartCol+1, d.Severity, d.Message, d.Source)
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

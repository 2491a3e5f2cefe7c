package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/javafx-support/internal/workspace"
)

var (
	fixLineFlag  int
	fixIDFlag    string
	fixWriteFlag bool
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix <missing-fields|field|initialize|accessors> <file>",
	Short: "Generate controller code",
	Long: `Fix generates code in a Java source file:
  missing-fields  insert an @FXML field for every fx:id the controller lacks
  field           insert the @FXML field for the fx:id given with --id
  initialize      insert an initialize() stub before the closing brace
  accessors       insert property, getter and setter methods for the
                  JavaFX property field on --line (1-indexed)

The result is printed unless --write is given.

Examples:
  fxsupport fix missing-fields src/main/java/com/example/MainController.java
  fxsupport fix field src/main/java/com/example/MainController.java --id okBtn
  fxsupport fix accessors src/main/java/com/example/Person.java --line 12 --write`,
	Args: cobra.ExactArgs(2),
	RunE: runFix,
}

func init() {
	rootCmd.AddCommand(fixCmd)
	fixCmd.Flags().IntVarP(&fixLineFlag, "line", "l", 0, "1-indexed line of the property field (accessors)")
	fixCmd.Flags().StringVar(&fixIDFlag, "id", "", "fx:id of the missing field (field)")
	fixCmd.Flags().BoolVarP(&fixWriteFlag, "write", "w", false, "Write the result to the file")
}

func runFix(cmd *cobra.Command, args []string) error {
	kind, err := workspace.ParseFixKind(args[0])
	if err != nil {
		return err
	}
	root, err := projectRoot()
	if err != nil {
		return err
	}
	session, err := openSession(cmd.Context(), root, progressWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer session.Close()

	return executeFix(cmd.Context(), session, cmd.OutOrStdout(), kind, args[1], fixLineFlag, fixIDFlag, fixWriteFlag)
}

func executeFix(ctx context.Context, session *workspace.Session, out io.Writer, kind workspace.FixKind, file string, line int, id string, write bool) error {
	path, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if kind == workspace.FixAccessors && line < 1 {
		return fmt.Errorf("accessors: --line is required")
	}
	if kind == workspace.FixField && id == "" {
		return fmt.Errorf("field: --id is required")
	}

	target := workspace.FixTarget{Line: line - 1, ID: id}
	var res *workspace.FixResult
	if write {
		res, err = session.ApplyFix(ctx, path, kind, target)
	} else {
		res, err = session.Fix(path, kind, target)
	}
	if err != nil {
		return err
	}

	switch {
	case len(res.Edits) == 0:
		fmt.Fprintln(out, "✓ Nothing to do")
	case res.Applied:
		fmt.Fprintf(out, "✓ Updated %s\n", file)
	default:
		fmt.Fprint(out, res.Text)
	}
	return nil
}

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
	builderLineFlag  int
	builderColFlag   int
	builderWriteFlag bool
)

// builderCmd represents the builder command
var builderCmd = &cobra.Command{
	Use:   "builder <file>",
	Short: "Generate a fluent builder for a JavaFX type",
	Long: `Builder resolves the type constructed at --line/--col (1-indexed) and
writes <Type>Builder.java into the jfxbuilder package next to the
Application subclass. Every setter of the type and its ancestors becomes a
chained method.

With --write the construction is also rewritten to use the builder and the
builder is imported.

Example:
  fxsupport builder src/main/java/com/example/MainController.java --line 14 --col 28 --write`,
	Args: cobra.ExactArgs(1),
	RunE: runBuilder,
}

func init() {
	rootCmd.AddCommand(builderCmd)
	builderCmd.Flags().IntVarP(&builderLineFlag, "line", "l", 0, "1-indexed line of the construction")
	builderCmd.Flags().IntVarP(&builderColFlag, "col", "c", 0, "1-indexed column inside the type name")
	builderCmd.Flags().BoolVarP(&builderWriteFlag, "write", "w", false, "Rewrite the construction to use the builder")
	_ = builderCmd.MarkFlagRequired("line")
	_ = builderCmd.MarkFlagRequired("col")
}

func runBuilder(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	session, err := openSession(cmd.Context(), root, progressWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer session.Close()

	return executeBuilder(cmd.Context(), session, cmd.OutOrStdout(), args[0], builderLineFlag, builderColFlag, builderWriteFlag)
}

func executeBuilder(ctx context.Context, session *workspace.Session, out io.Writer, file string, line, col int, write bool) error {
	if line < 1 || col < 1 {
		return fmt.Errorf("--line and --col must be positive")
	}
	path, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	res, err := session.GenerateBuilder(ctx, path, line-1, col-1)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Generated %s (%d methods)\n", res.BuilderPath, len(res.Methods))

	if write && res.CallSite != nil {
		if err := session.ApplyCallSite(ctx, res.CallSite); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Updated %s:%d\n", file, res.CallSite.Line+1)
	}
	return nil
}

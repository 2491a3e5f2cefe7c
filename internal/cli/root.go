package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootDir   string
	quietFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fxsupport",
	Short: "FXML and controller consistency checks for JavaFX projects",
	Long: `fxsupport keeps JavaFX FXML views and their controllers in step.

It reports fx:id elements without a matching @FXML field (and the reverse),
views without an fx:controller, and controllers that do not exist. It can
insert the missing fields, an initialize() stub or property accessors, and
generate fluent builder classes for JavaFX node types.

Configuration is read from .fxsupport/config.yml in the project root, with
FXSUPPORT_* environment variables taking precedence.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quietFlag {
			log.SetOutput(io.Discard)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "C", "", "project root (default is the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress progress and log output")
}

// projectRoot returns --root or the working directory.
func projectRoot() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

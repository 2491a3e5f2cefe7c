package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/javafx-support/internal/mcp"
	"github.com/mvp-joe/javafx-support/internal/watcher"
)

var mcpNoWatchFlag bool

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for FXML checks and code generation",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can
inspect and fix JavaFX views and controllers.

Tools:
  fx_views    list views with their controller and fx:id elements
  fx_check    report diagnostics for one file or the whole project
  fx_fix      insert missing fields, initialize() or property accessors
  fx_builder  generate a fluent builder for a JavaFX type

The project is watched while serving unless --no-watch is given.
Communicates via stdio (standard MCP transport).

Example:
  fxsupport mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolVar(&mcpNoWatchFlag, "no-watch", false, "Do not refresh diagnostics on file changes")
}

func runMCP(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	// stdout carries the protocol; progress goes to stderr.
	session, err := openSession(cmd.Context(), root, progressWriter(os.Stderr))
	if err != nil {
		return err
	}
	defer session.Close()

	var coordinator *watcher.Coordinator
	if !mcpNoWatchFlag {
		if coordinator, err = newCoordinator(session, session); err != nil {
			log.Printf("Warning: file watching disabled: %v", err)
		}
	}

	fmt.Fprintf(os.Stderr, "fxsupport MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project: %s\n\n", session.Root())

	server := mcp.NewServer(session, Version, coordinator)
	if err := server.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

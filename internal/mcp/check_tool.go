package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/javafx-support/internal/check"
	"github.com/mvp-joe/javafx-support/internal/fix"
	"github.com/mvp-joe/javafx-support/internal/workspace"
)

// CheckResponse is the fx_check result. Quick fixes and lenses are only
// reported for a single bound controller.
type CheckResponse struct {
	Diagnostics []check.Diagnostic `json:"diagnostics"`
	Total       int                `json:"total"`
	QuickFixes  []fix.Action       `json:"quick_fixes,omitempty"`
	Lenses      []fix.Lens         `json:"lenses,omitempty"`
}

// AddCheckTool registers the fx_check tool.
func AddCheckTool(s *server.MCPServer, session *workspace.Session) {
	tool := mcp.NewTool(
		"fx_check",
		mcp.WithDescription("Report FXML/controller consistency problems: missing fx:controller, missing controller files, fx:id elements without an @FXML field and @FXML fields without an element. Also reports builder and accessor hints. For a controller file the response adds its quick fixes and code lenses."),
		mcp.WithString("path",
			mcp.Description("Optional controller, Java or FXML file (relative to the project root). Omit to report every file.")),
		mcp.WithString("source",
			mcp.Description("Optional diagnostic source filter: fxml, fxid, scene, property")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createCheckHandler(session))
}

func createCheckHandler(session *workspace.Session) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}
		path, err := parseStringArg(argsMap, "path", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		source, err := parseStringArg(argsMap, "source", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var diags []check.Diagnostic
		var assists *workspace.Assists
		if path == "" {
			diags = session.AllDiagnostics()
		} else {
			abs, err := resolvePath(session.Root(), path)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			// Controllers are re-read so edits made since the last event count.
			if _, ok := session.View(abs); ok {
				if _, err := session.CheckController(abs); err != nil {
					if isUserError(err) {
						return mcp.NewToolResultError(err.Error()), nil
					}
					return nil, err
				}
				if assists, err = session.Assists(abs); err != nil {
					if isUserError(err) {
						return mcp.NewToolResultError(err.Error()), nil
					}
					return nil, err
				}
			}
			diags = session.Diagnostics(abs)
		}

		out := []check.Diagnostic{}
		for _, d := range diags {
			if source == "" || d.Source == source {
				out = append(out, d)
			}
		}
		resp := CheckResponse{Diagnostics: out, Total: len(out)}
		if assists != nil {
			resp.QuickFixes = assists.QuickFixes
			resp.Lenses = assists.Lenses
		}
		return marshalToolResponse(resp)
	}
}

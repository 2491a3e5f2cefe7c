package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcputils "github.com/mvp-joe/javafx-support/internal/mcp-utils"
	"github.com/mvp-joe/javafx-support/internal/workspace"
)

// FixRequest holds the fx_fix arguments.
type FixRequest struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Line  int    `json:"line,omitempty"`
	ID    string `json:"id,omitempty"`
	Apply bool   `json:"apply,omitempty"`
}

// AddFixTool registers the fx_fix tool.
func AddFixTool(s *server.MCPServer, session *workspace.Session) {
	tool := mcp.NewTool(
		"fx_fix",
		mcp.WithDescription("Generate controller code: every missing @FXML field, one missing @FXML field, an initialize() stub, or getter/setter/property accessors for a JavaFX property field. Returns the edits and the resulting text; writes the file only when apply is true."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Java file to edit (relative to the project root)")),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Enum(string(workspace.FixMissingFields), string(workspace.FixField), string(workspace.FixInitialize), string(workspace.FixAccessors)),
			mcp.Description("Fix to generate")),
		mcp.WithNumber("line",
			mcp.Description("0-indexed line of the property field (accessors only)")),
		mcp.WithString("id",
			mcp.Description("fx:id of the missing field (field only)")),
		mcp.WithBoolean("apply",
			mcp.Description("Write the result to disk (default: false)")),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createFixHandler(session))
}

func createFixHandler(session *workspace.Session) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req FixRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}
		kind, err := workspace.ParseFixKind(req.Kind)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if kind == workspace.FixField && req.ID == "" {
			return mcp.NewToolResultError("id parameter is required for the field fix"), nil
		}
		path, err := resolvePath(session.Root(), req.Path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		target := workspace.FixTarget{Line: req.Line, ID: req.ID}
		var res *workspace.FixResult
		if req.Apply {
			res, err = session.ApplyFix(ctx, path, kind, target)
		} else {
			res, err = session.Fix(path, kind, target)
		}
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		return marshalToolResponse(res)
	}
}

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/javafx-support/internal/builder"
	"github.com/mvp-joe/javafx-support/internal/workspace"
)

// BuilderResponse is the fx_builder result.
type BuilderResponse struct {
	*builder.Result
	CallSiteApplied bool `json:"call_site_applied"`
}

// AddBuilderTool registers the fx_builder tool.
func AddBuilderTool(s *server.MCPServer, session *workspace.Session) {
	tool := mcp.NewTool(
		"fx_builder",
		mcp.WithDescription("Generate a fluent builder class for the JavaFX type constructed at a position. The builder is written next to the application class in the jfxbuilder package; the constructor call can be rewritten to use it."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Java file containing the construction (relative to the project root)")),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("0-indexed line of the construction")),
		mcp.WithNumber("col",
			mcp.Required(),
			mcp.Description("0-indexed column inside the type name")),
		mcp.WithBoolean("rewrite_call_site",
			mcp.Description("Replace the construction with the builder and import it (default: false)")),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createBuilderHandler(session))
}

func createBuilderHandler(session *workspace.Session) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}
		path, err := parseStringArg(argsMap, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		line, err := parseIntArg(argsMap, "line")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		col, err := parseIntArg(argsMap, "col")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		rewrite := parseBoolArg(argsMap, "rewrite_call_site", false)

		abs, err := resolvePath(session.Root(), path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := session.GenerateBuilder(ctx, abs, line, col)
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		resp := BuilderResponse{Result: res}
		if rewrite && res.CallSite != nil {
			if err := session.ApplyCallSite(ctx, res.CallSite); err != nil {
				return nil, err
			}
			resp.CallSiteApplied = true
		}
		return marshalToolResponse(resp)
	}
}

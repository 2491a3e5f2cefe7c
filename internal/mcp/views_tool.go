package mcp

import (
	"context"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/javafx-support/internal/fxml"
	"github.com/mvp-joe/javafx-support/internal/workspace"
)

// ViewsResponse is the fx_views result.
type ViewsResponse struct {
	Views []fxml.ViewDescriptor `json:"views"`
	Total int                   `json:"total"`
}

// AddViewsTool registers the fx_views tool.
func AddViewsTool(s *server.MCPServer, session *workspace.Session) {
	tool := mcp.NewTool(
		"fx_views",
		mcp.WithDescription("List indexed FXML views with their fx:controller class, resolved controller file and fx:id elements."),
		mcp.WithString("controller",
			mcp.Description("Optional filter: fully qualified controller class or controller file path")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createViewsHandler(session))
}

func createViewsHandler(session *workspace.Session) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}
		controller, err := parseStringArg(argsMap, "controller", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		controllerPath := ""
		if controller != "" && filepath.Ext(controller) == ".java" {
			if controllerPath, err = resolvePath(session.Root(), controller); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		views := []fxml.ViewDescriptor{}
		for _, desc := range session.Store().Snapshot() {
			switch {
			case controller == "":
			case controllerPath != "":
				if filepath.Clean(desc.ControllerFilePath) != controllerPath {
					continue
				}
			case desc.ControllerClassName != controller:
				continue
			}
			views = append(views, desc)
		}

		return marshalToolResponse(ViewsResponse{Views: views, Total: len(views)})
	}
}

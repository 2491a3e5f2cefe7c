package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvp-joe/javafx-support/internal/builder"
	"github.com/mvp-joe/javafx-support/internal/fix"
	"github.com/mvp-joe/javafx-support/internal/workspace"
)

// errOutsideRoot is returned for paths that escape the project root.
var errOutsideRoot = errors.New("path is outside project root")

// parseToolArguments validates and extracts the arguments map from an MCP tool request.
// Returns the arguments map or an error result if validation fails.
func parseToolArguments(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, mcp.NewToolResultError("invalid arguments format")
	}
	return argsMap, nil
}

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// resolvePath turns a root-relative or absolute path into a clean absolute
// path under root.
func resolvePath(root, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, filepath.FromSlash(path))
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", path, errOutsideRoot)
	}
	return path, nil
}

// isUserError determines if an error should be shown to the LLM (user error)
// vs treated as an internal system error.
func isUserError(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{
		errOutsideRoot,
		fs.ErrNotExist,
		workspace.ErrNoView,
		workspace.ErrUnknownFix,
		workspace.ErrNoElement,
		fix.ErrNoClass,
		fix.ErrAlreadyPresent,
		fix.ErrNotProperty,
		builder.ErrNoType,
		builder.ErrNoMainClass,
		builder.ErrSuperseded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

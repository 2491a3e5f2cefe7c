package fxml

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultJavaRoot is the conventional Maven/Gradle source root.
const DefaultJavaRoot = "src/main/java"

var (
	fxIDPattern       = regexp.MustCompile(`<(\w+)[^>]*fx:id\s*=\s*"([^"]+)"`)
	controllerPattern = regexp.MustCompile(`fx:controller\s*=\s*"([^"]+)"`)
)

// Parse extracts the controller reference and fx:id elements from FXML content.
// Elements keep document order. Duplicate ids are kept as-is.
func Parse(path, workspaceRoot string, content []byte, javaRoot string) ViewDescriptor {
	text := string(content)

	desc := ViewDescriptor{
		Path:          path,
		WorkspaceRoot: workspaceRoot,
		Elements:      []Element{},
	}

	for _, m := range fxIDPattern.FindAllStringSubmatch(text, -1) {
		desc.Elements = append(desc.Elements, Element{TagName: m[1], ID: m[2]})
	}

	if m := controllerPattern.FindStringSubmatch(text); m != nil {
		desc.ControllerClassName = strings.TrimSpace(m[1])
		desc.ControllerFilePath = ResolveControllerPath(workspaceRoot, desc.ControllerClassName, javaRoot)
	}

	return desc
}

// ParseFile reads and parses one FXML file.
func ParseFile(path, workspaceRoot, javaRoot string) (ViewDescriptor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ViewDescriptor{}, fmt.Errorf("failed to read FXML file %s: %w", path, err)
	}
	return Parse(path, workspaceRoot, content, javaRoot), nil
}

// ResolveControllerPath maps a dotted class name onto the java source root:
// com.example.FooController -> <root>/src/main/java/com/example/FooController.java
func ResolveControllerPath(workspaceRoot, className, javaRoot string) string {
	if className == "" {
		return ""
	}
	if javaRoot == "" {
		javaRoot = DefaultJavaRoot
	}
	parts := strings.Split(className, ".")
	fileName := parts[len(parts)-1] + ".java"
	elems := []string{workspaceRoot, filepath.FromSlash(javaRoot)}
	elems = append(elems, parts[:len(parts)-1]...)
	elems = append(elems, fileName)
	return filepath.Join(elems...)
}

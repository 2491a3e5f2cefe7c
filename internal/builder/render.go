package builder

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mvp-joe/javafx-support/internal/hierarchy"
)

// DefaultPackageDir is the sub-package generated builders live in.
const DefaultPackageDir = "jfxbuilder"

// templateImports are emitted into every builder.
var templateImports = []string{
	"javafx.scene",
	"javafx.scene.layout",
	"javafx.scene.effect",
	"javafx.scene.control",
	"javafx.scene.input",
	"javafx.scene.text",
	"javafx.scene.shape",
	"javafx.scene.paint",
	"javafx.css",
	"javafx.event",
	"javafx.geometry",
	"javafx.collections",
	"java.util",
}

// Setters whose two parameters are named width and height.
var sizeSetters = map[string]bool{
	"setMaxSize":  true,
	"setMinSize":  true,
	"setPrefSize": true,
}

// BuilderName returns the builder class name for target.
func BuilderName(target string) string {
	return target + "Builder"
}

// BuilderPath returns where the builder for target is written, next to the
// main class.
func BuilderPath(main MainClass, packageDir, target string) string {
	if packageDir == "" {
		packageDir = DefaultPackageDir
	}
	return filepath.Join(main.Dir(), packageDir, BuilderName(target)+".java")
}

// BuilderQualifiedName returns the fully qualified builder class name.
func BuilderQualifiedName(main MainClass, packageDir, target string) string {
	if packageDir == "" {
		packageDir = DefaultPackageDir
	}
	return fmt.Sprintf("%s.%s.%s", main.Package, packageDir, BuilderName(target))
}

// Render produces the builder source for target. targetPackage, when set and
// not covered by the default imports, is imported explicitly.
func Render(pkg, packageDir, target, targetPackage string, methods []hierarchy.MethodSignature) string {
	if packageDir == "" {
		packageDir = DefaultPackageDir
	}
	builder := BuilderName(target)

	var b strings.Builder
	fmt.Fprintf(&b, "package %s.%s;\n\n", pkg, packageDir)
	for _, imp := range templateImports {
		fmt.Fprintf(&b, "import %s.*;\n", imp)
	}
	if targetPackage != "" && !covered(targetPackage) {
		fmt.Fprintf(&b, "import %s.%s;\n", targetPackage, target)
	}

	fmt.Fprintf(&b, "\npublic class %s {\n", builder)
	fmt.Fprintf(&b, "    private %s in;\n\n", target)
	fmt.Fprintf(&b, "    public %s() { in = new %s(); }\n\n", builder, target)

	rendered := make([]string, 0, len(methods))
	for _, m := range methods {
		rendered = append(rendered, renderMethod(builder, m))
	}
	b.WriteString(strings.Join(rendered, "\n\n"))

	fmt.Fprintf(&b, "\n\n    public %s build() { return in; }\n}\n", target)
	return b.String()
}

func covered(pkg string) bool {
	for _, imp := range templateImports {
		if imp == pkg {
			return true
		}
	}
	return false
}

func renderMethod(builder string, m hierarchy.MethodSignature) string {
	n := len(m.ParameterTypes)
	params := make([]string, n)
	names := make([]string, n)
	for i, typ := range m.ParameterTypes {
		var name string
		switch {
		case sizeSetters[m.MethodName] && i == 0:
			name = "width"
		case sizeSetters[m.MethodName]:
			name = "height"
		case n == 1:
			name = "value"
		default:
			name = fmt.Sprintf("value%d", i+1)
		}
		params[i] = typ + " " + name
		names[i] = name
	}

	paramList := strings.Join(params, ", ")
	generic := ""
	if strings.Contains(paramList, "<T>") {
		generic = "<T extends Event> "
	}

	return fmt.Sprintf("    public %s%s %s(%s) { in.%s(%s); return this; }",
		generic, builder, methodName(m.MethodName), paramList, m.MethodName, strings.Join(names, ", "))
}

// methodName turns setPrefWidth into prefWidth.
func methodName(setter string) string {
	name := strings.TrimPrefix(setter, "set")
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

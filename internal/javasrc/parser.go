// Package javasrc answers symbol, type-hierarchy and type-definition queries
// over Java sources using tree-sitter.
package javasrc

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/mvp-joe/javafx-support/internal/hierarchy"
)

// Visibility of a declaration.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Package   Visibility = "package"
	Private   Visibility = "private"
)

// Member is a method, constructor or field of a type.
type Member struct {
	Kind       hierarchy.SymbolKind
	Name       string // LSP style, e.g. setText(String)
	Detail     string // return or field type
	Line       int
	Visibility Visibility
	Static     bool
}

// TypeDecl is one class or interface declaration.
type TypeDecl struct {
	Name       string
	Kind       hierarchy.SymbolKind
	Line       int
	Col        int
	EndLine    int
	Visibility Visibility
	Superclass string   // as written, generics removed
	Interfaces []string // as written, generics removed
	Members    []Member
}

// Supertypes returns the superclass followed by the interfaces.
func (t TypeDecl) Supertypes() []string {
	var out []string
	if t.Superclass != "" {
		out = append(out, t.Superclass)
	}
	return append(out, t.Interfaces...)
}

// FileSymbols is the parsed outline of one Java file.
type FileSymbols struct {
	URI     string
	Package string
	Imports []string // single-type and on-demand ("pkg.*") imports
	Types   []TypeDecl
}

// QualifiedName returns the package-qualified name of a type in the file.
func (f *FileSymbols) QualifiedName(name string) string {
	if f.Package == "" {
		return name
	}
	return f.Package + "." + name
}

// Symbols converts the outline to document symbols. With publicOnly, members
// that are not public are left out; interface members are always public.
func (f *FileSymbols) Symbols(publicOnly bool) []hierarchy.Symbol {
	syms := make([]hierarchy.Symbol, 0, len(f.Types))
	for _, t := range f.Types {
		sym := hierarchy.Symbol{Kind: t.Kind, Name: t.Name, Detail: f.Package, Line: t.Line}
		for _, m := range t.Members {
			if publicOnly && t.Kind == hierarchy.KindClass && m.Visibility != Public {
				continue
			}
			sym.Children = append(sym.Children, hierarchy.Symbol{
				Kind:   m.Kind,
				Name:   m.Name,
				Detail: m.Detail,
				Line:   m.Line,
			})
		}
		syms = append(syms, sym)
	}
	return syms
}

// Parser parses Java source with tree-sitter.
type Parser struct {
	language *sitter.Language
}

// NewParser creates a Java parser.
func NewParser() *Parser {
	return &Parser{language: sitter.NewLanguage(java.Language())}
}

// Parse extracts the package, imports and type outlines of source.
func (p *Parser) Parse(uri string, source []byte) (*FileSymbols, error) {
	fs := &FileSymbols{URI: uri, Imports: []string{}, Types: []TypeDecl{}}
	if len(source) == 0 {
		return fs, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to set java language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse java file: %s", uri)
	}
	defer tree.Close()

	root := tree.RootNode()

	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		switch child.Kind() {
		case "package_declaration":
			fs.Package = qualifiedChildText(child, source)
		case "import_declaration":
			if imp := importText(child, source); imp != "" {
				fs.Imports = append(fs.Imports, imp)
			}
		case "class_declaration", "interface_declaration":
			p.extractType(child, source, fs)
		}
	}

	return fs, nil
}

func (p *Parser) extractType(node *sitter.Node, source []byte, fs *FileSymbols) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	decl := TypeDecl{
		Name:       nodeText(nameNode, source),
		Kind:       hierarchy.KindClass,
		Line:       int(nameNode.StartPosition().Row),
		Col:        int(nameNode.StartPosition().Column),
		EndLine:    int(node.EndPosition().Row),
		Visibility: visibility(node, source),
	}

	if node.Kind() == "interface_declaration" {
		decl.Kind = hierarchy.KindInterface
		if ext := findChildByKind(node, "extends_interfaces"); ext != nil {
			decl.Interfaces = typeListNames(ext, source)
		}
	} else {
		if sc := node.ChildByFieldName("superclass"); sc != nil {
			decl.Superclass = stripGenerics(strings.TrimSpace(strings.TrimPrefix(nodeText(sc, source), "extends")))
		}
		if ifaces := node.ChildByFieldName("interfaces"); ifaces != nil {
			decl.Interfaces = typeListNames(ifaces, source)
		}
	}

	body := node.ChildByFieldName("body")
	var nested []*sitter.Node
	if body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "method_declaration":
				if m, ok := methodMember(child, source, hierarchy.KindMethod); ok {
					decl.Members = append(decl.Members, m)
				}
			case "constructor_declaration":
				if m, ok := methodMember(child, source, hierarchy.KindConstructor); ok {
					decl.Members = append(decl.Members, m)
				}
			case "field_declaration", "constant_declaration":
				decl.Members = append(decl.Members, fieldMembers(child, source)...)
			case "class_declaration", "interface_declaration":
				nested = append(nested, child)
			}
		}
	}

	fs.Types = append(fs.Types, decl)
	for _, n := range nested {
		p.extractType(n, source, fs)
	}
}

func methodMember(node *sitter.Node, source []byte, kind hierarchy.SymbolKind) (Member, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Member{}, false
	}

	var params []string
	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		params = parameterTypes(paramsNode, source)
	}

	m := Member{
		Kind:       kind,
		Name:       fmt.Sprintf("%s(%s)", nodeText(nameNode, source), strings.Join(params, ", ")),
		Line:       int(nameNode.StartPosition().Row),
		Visibility: visibility(node, source),
		Static:     hasModifier(node, source, "static"),
	}
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		m.Detail = collapseSpace(nodeText(typeNode, source))
	}
	return m, true
}

func parameterTypes(paramsNode *sitter.Node, source []byte) []string {
	var types []string
	for i := uint(0); i < paramsNode.ChildCount(); i++ {
		child := paramsNode.Child(i)
		switch child.Kind() {
		case "formal_parameter":
			if t := child.ChildByFieldName("type"); t != nil {
				types = append(types, collapseSpace(nodeText(t, source)))
			}
		case "spread_parameter":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				part := child.NamedChild(j)
				if part.Kind() == "modifiers" || part.Kind() == "variable_declarator" {
					continue
				}
				types = append(types, collapseSpace(nodeText(part, source))+"...")
				break
			}
		}
	}
	return types
}

func fieldMembers(node *sitter.Node, source []byte) []Member {
	var typeName string
	if t := node.ChildByFieldName("type"); t != nil {
		typeName = collapseSpace(nodeText(t, source))
	}
	vis := visibility(node, source)
	static := hasModifier(node, source, "static")

	var out []Member
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		out = append(out, Member{
			Kind:       hierarchy.KindField,
			Name:       nodeText(nameNode, source),
			Detail:     typeName,
			Line:       int(nameNode.StartPosition().Row),
			Visibility: vis,
			Static:     static,
		})
	}
	return out
}

func visibility(node *sitter.Node, source []byte) Visibility {
	mods := findChildByKind(node, "modifiers")
	if mods == nil {
		return Package
	}
	for _, word := range strings.Fields(nodeText(mods, source)) {
		switch word {
		case "public":
			return Public
		case "protected":
			return Protected
		case "private":
			return Private
		}
	}
	return Package
}

func hasModifier(node *sitter.Node, source []byte, modifier string) bool {
	mods := findChildByKind(node, "modifiers")
	if mods == nil {
		return false
	}
	for _, word := range strings.Fields(nodeText(mods, source)) {
		if word == modifier {
			return true
		}
	}
	return false
}

func typeListNames(node *sitter.Node, source []byte) []string {
	list := findChildByKind(node, "type_list")
	if list == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < list.NamedChildCount(); i++ {
		names = append(names, stripGenerics(nodeText(list.NamedChild(i), source)))
	}
	return names
}

func qualifiedChildText(node *sitter.Node, source []byte) string {
	if n := findChildByKind(node, "scoped_identifier"); n != nil {
		return nodeText(n, source)
	}
	if n := findChildByKind(node, "identifier"); n != nil {
		return nodeText(n, source)
	}
	return ""
}

func importText(node *sitter.Node, source []byte) string {
	if findChildByKind(node, "static") != nil {
		return ""
	}
	name := qualifiedChildText(node, source)
	if name == "" {
		return ""
	}
	if findChildByKind(node, "asterisk") != nil {
		return name + ".*"
	}
	return name
}

// stripGenerics drops type arguments: ObjectProperty<T> -> ObjectProperty.
func stripGenerics(typeName string) string {
	if i := strings.Index(typeName, "<"); i >= 0 {
		typeName = typeName[:i]
	}
	return strings.TrimSpace(typeName)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

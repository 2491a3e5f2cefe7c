// Package hierarchy walks a type hierarchy and collects the setters a builder
// can expose, keeping the most-derived definition of each property.
package hierarchy

import "context"

// TypeHierarchyItem is one node of a type hierarchy. Detail holds the package.
type TypeHierarchyItem struct {
	Name     string               `json:"name"`
	Detail   string               `json:"detail"`
	URI      string               `json:"uri"`
	Parents  []*TypeHierarchyItem `json:"parents,omitempty"`
	Children []*TypeHierarchyItem `json:"children,omitempty"`
}

// QualifiedName returns Detail.Name, or Name when Detail is empty.
func (it *TypeHierarchyItem) QualifiedName() string {
	if it.Detail == "" {
		return it.Name
	}
	return it.Detail + "." + it.Name
}

func (it *TypeHierarchyItem) key() string {
	return it.URI + "#" + it.Name
}

// SymbolKind is the subset of LSP symbol kinds the collector distinguishes.
type SymbolKind string

const (
	KindClass       SymbolKind = "class"
	KindInterface   SymbolKind = "interface"
	KindMethod      SymbolKind = "method"
	KindConstructor SymbolKind = "constructor"
	KindField       SymbolKind = "field"
	KindOther       SymbolKind = "other"
)

// Symbol is a document symbol. Method names carry their parameter list,
// e.g. "setText(String)".
type Symbol struct {
	Kind     SymbolKind `json:"kind"`
	Name     string     `json:"name"`
	Detail   string     `json:"detail,omitempty"`
	Line     int        `json:"line"`
	Children []Symbol   `json:"children,omitempty"`
}

// MethodSignature is one collected setter.
type MethodSignature struct {
	MethodName        string   `json:"method_name"`
	DefiningClassName string   `json:"defining_class_name"`
	ParameterTypes    []string `json:"parameter_types"`
}

// SymbolProvider lists the symbols declared in a document.
type SymbolProvider interface {
	DocumentSymbols(ctx context.Context, uri string) ([]Symbol, error)
}

// HierarchyProvider resolves the type at a position with its ancestors.
type HierarchyProvider interface {
	TypeHierarchy(ctx context.Context, uri string, line, col int) (*TypeHierarchyItem, error)
}

// Location is a resolved type definition.
type Location struct {
	URI           string `json:"uri"`
	QualifiedName string `json:"qualified_name"`
	Line          int    `json:"line"`
	Col           int    `json:"col"`
}

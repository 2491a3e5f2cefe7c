package hierarchy

import (
	"context"
	"log"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options control which methods are collected.
type Options struct {
	// Prefix selects methods by name, "set" by default.
	Prefix string
	// DenyList drops methods with a parameter type containing any entry.
	DenyList []string
}

// DefaultDenyList holds parameter types of internal JavaFX setters.
var DefaultDenyList = []string{"LayoutFlags", "ParentTraversalEngine"}

// DefaultOptions collects setters with the default deny list.
func DefaultOptions() Options {
	return Options{Prefix: "set", DenyList: append([]string(nil), DefaultDenyList...)}
}

var setterPattern = regexp.MustCompile(`^(set\w+)\((.*)\)`)

// Collect walks root and its ancestors breadth first and returns one setter
// per property, the first one found winning. Lookup failures for a node are
// logged and contribute nothing. The walk stops with ctx.Err() when ctx is
// cancelled.
func Collect(ctx context.Context, root *TypeHierarchyItem, symbols SymbolProvider, opts Options) ([]MethodSignature, error) {
	if opts.Prefix == "" {
		opts.Prefix = "set"
	}

	methods := []MethodSignature{}
	if root == nil {
		return methods, nil
	}

	seen := make(map[string]bool)
	visited := make(map[string]bool)
	queue := []*TypeHierarchyItem{root}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := queue[0]
		queue = queue[1:]
		if item == nil || visited[item.key()] {
			continue
		}
		visited[item.key()] = true

		syms, err := symbols.DocumentSymbols(ctx, item.URI)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Printf("Warning: symbols unavailable for %s: %v", item.URI, err)
		}

		if class, ok := findClass(syms, item.Name); ok {
			for _, child := range class.Children {
				if child.Kind != KindMethod || !strings.HasPrefix(child.Name, opts.Prefix) {
					continue
				}
				name, params, ok := SplitMethodName(child.Name)
				if !ok {
					continue
				}
				key := PropertyKey(name)
				if seen[key] {
					continue
				}
				types := ParseParameterTypes(params)
				if denied(types, opts.DenyList) {
					continue
				}
				seen[key] = true
				methods = append(methods, MethodSignature{
					MethodName:        name,
					DefiningClassName: item.Name,
					ParameterTypes:    types,
				})
			}
		}

		queue = append(queue, item.Parents...)
	}

	return methods, nil
}

func findClass(syms []Symbol, name string) (Symbol, bool) {
	for _, s := range syms {
		if s.Kind == KindClass && s.Name == name {
			return s, true
		}
	}
	return Symbol{}, false
}

func denied(types, denyList []string) bool {
	for _, t := range types {
		for _, d := range denyList {
			if d != "" && strings.Contains(t, d) {
				return true
			}
		}
	}
	return false
}

// SplitMethodName splits "setText(String)" into its name and parameter list.
func SplitMethodName(symbolName string) (name, params string, ok bool) {
	m := setterPattern.FindStringSubmatch(symbolName)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// PropertyKey strips a set/get prefix and lower-cases the first letter:
// setPrefWidth -> prefWidth.
func PropertyKey(methodName string) string {
	key := methodName
	for _, prefix := range []string{"set", "get"} {
		if strings.HasPrefix(key, prefix) && len(key) > len(prefix) {
			key = key[len(prefix):]
			break
		}
	}
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToLower(r)) + key[size:]
}

// ParseParameterTypes splits a parameter list on top-level commas. Generic
// arguments stay intact: "Map<K, V>, int" -> ["Map<K, V>", "int"].
func ParseParameterTypes(params string) []string {
	types := []string{}
	depth := 0
	var current strings.Builder

	flush := func() {
		if t := strings.TrimSpace(current.String()); t != "" {
			types = append(types, t)
		}
		current.Reset()
	}

	for _, r := range params {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush()
				continue
			}
		}
		current.WriteRune(r)
	}
	flush()
	return types
}

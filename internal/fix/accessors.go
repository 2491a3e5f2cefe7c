package fix

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mvp-joe/javafx-support/internal/check"
	"github.com/mvp-joe/javafx-support/internal/javatext"
)

// PropertyKind classifies a JavaFX property field by the accessors it gets.
type PropertyKind string

const (
	KindBasicProperty          PropertyKind = "basicProperty"
	KindObjectProperty         PropertyKind = "objectProperty"
	KindReadOnlyBasicProperty  PropertyKind = "readOnlyBasicProperty"
	KindReadOnlyObjectProperty PropertyKind = "readOnlyObjectProperty"
	KindReadOnlyBasicWrapper   PropertyKind = "readOnlyBasicWrapper"
	KindReadOnlyObjectWrapper  PropertyKind = "readOnlyObjectWrapper"
)

// Writable reports whether the kind gets a setter.
func (k PropertyKind) Writable() bool {
	return k == KindBasicProperty || k == KindObjectProperty
}

// Wrapper reports whether the kind exposes a read-only view of a wrapper.
func (k PropertyKind) Wrapper() bool {
	return k == KindReadOnlyBasicWrapper || k == KindReadOnlyObjectWrapper
}

// Value types per property class. An empty value means the type parameter is
// the value type.
var propertyTypes = map[PropertyKind]map[string]string{
	KindBasicProperty: {
		"StringProperty":  "String",
		"IntegerProperty": "int",
		"DoubleProperty":  "double",
		"FloatProperty":   "float",
		"LongProperty":    "long",
		"BooleanProperty": "boolean",
	},
	KindObjectProperty: {
		"ObjectProperty": "",
		"ListProperty":   "ObservableList",
		"MapProperty":    "ObservableMap",
		"SetProperty":    "ObservableSet",
	},
	KindReadOnlyBasicProperty: {
		"ReadOnlyStringProperty":  "String",
		"ReadOnlyIntegerProperty": "int",
		"ReadOnlyDoubleProperty":  "double",
		"ReadOnlyFloatProperty":   "float",
		"ReadOnlyLongProperty":    "long",
		"ReadOnlyBooleanProperty": "boolean",
	},
	KindReadOnlyObjectProperty: {
		"ReadOnlyObjectProperty": "",
		"ReadOnlyListProperty":   "ObservableList",
		"ReadOnlyMapProperty":    "ObservableMap",
		"ReadOnlySetProperty":    "ObservableSet",
	},
	KindReadOnlyBasicWrapper: {
		"ReadOnlyStringWrapper":  "String",
		"ReadOnlyIntegerWrapper": "int",
		"ReadOnlyDoubleWrapper":  "double",
		"ReadOnlyFloatWrapper":   "float",
		"ReadOnlyLongWrapper":    "long",
		"ReadOnlyBooleanWrapper": "boolean",
	},
	KindReadOnlyObjectWrapper: {
		"ReadOnlyObjectWrapper": "",
		"ReadOnlyListWrapper":   "ObservableList",
		"ReadOnlyMapWrapper":    "ObservableMap",
		"ReadOnlySetWrapper":    "ObservableSet",
	},
}

var boxedToPrimitive = map[string]string{
	"Byte":      "byte",
	"Short":     "short",
	"Integer":   "int",
	"Long":      "long",
	"Float":     "float",
	"Double":    "double",
	"Boolean":   "boolean",
	"Character": "char",
}

var (
	propertyFieldPattern = regexp.MustCompile(`\s*([\w.]+Property(?:<[\w,<> ]*>)?)\s+(\w+)\s*=\s*new\s+([\w.]+(?:<[\w,<> ]*>)?)\s*\(`)
	wrapperFieldPattern  = regexp.MustCompile(`\s*(ReadOnly[\w.]+Wrapper(?:<[\w,<> ]*>)?)\s+(\w+)\s*=\s*new\s+([\w.]+(?:<[\w,<> ]*>)?)\s*\(`)
	typeParamPattern     = regexp.MustCompile(`^(.*?)<(.+)>$`)
	propSuffixPattern    = regexp.MustCompile(`^(.*)Prop`)
)

// PropertyField is a parsed "XProperty name = new SimpleXProperty(...)" line.
type PropertyField struct {
	FieldType string       // declared type, e.g. ObjectProperty<Color>
	FieldName string       // e.g. colorProperty
	ClassName string       // constructed class, e.g. SimpleObjectProperty<>
	Kind      PropertyKind
	ValueType string       // getter/setter type, e.g. Color
	Name      string       // property name, e.g. color
}

// Capitalized returns Name with its first letter upper-cased.
func (p PropertyField) Capitalized() string {
	if p.Name == "" {
		return ""
	}
	return strings.ToUpper(p.Name[:1]) + p.Name[1:]
}

// ParsePropertyField recognizes a JavaFX property or read-only wrapper field
// declaration on one line.
func ParsePropertyField(line string) (PropertyField, bool) {
	m := propertyFieldPattern.FindStringSubmatch(line)
	if m == nil {
		m = wrapperFieldPattern.FindStringSubmatch(line)
	}
	if m == nil {
		return PropertyField{}, false
	}

	p := PropertyField{FieldType: m[1], FieldName: m[2], ClassName: m[3]}

	base, param := splitTypeParam(p.FieldType)
	if param == "" {
		_, param = splitTypeParam(p.ClassName)
	}
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[i+1:]
	}

	found := false
	for kind, types := range propertyTypes {
		value, ok := types[base]
		if !ok {
			continue
		}
		p.Kind = kind
		switch {
		case value == "":
			value = param
			if prim, ok := boxedToPrimitive[param]; ok {
				value = prim
			}
		case param != "":
			value = fmt.Sprintf("%s<%s>", value, param)
		}
		p.ValueType = value
		found = true
		break
	}
	if !found || p.ValueType == "" {
		return PropertyField{}, false
	}

	p.Name = p.FieldName
	if sm := propSuffixPattern.FindStringSubmatch(p.FieldName); sm != nil && sm[1] != "" {
		p.Name = sm[1]
	}
	return p, true
}

func splitTypeParam(typeName string) (base, param string) {
	m := typeParamPattern.FindStringSubmatch(typeName)
	if m == nil {
		return typeName, ""
	}
	return m[1], strings.TrimSpace(m[2])
}

// RenderAccessors renders the property accessor, the getter and, for writable
// kinds, the setter.
func RenderAccessors(p PropertyField, indent string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s// %s\n", indent, p.Name)
	if p.Kind.Wrapper() {
		fmt.Fprintf(&b, "%spublic %s %sProperty() {\n", indent, strings.Replace(p.FieldType, "Wrapper", "Property", 1), p.Name)
		fmt.Fprintf(&b, "%s%sreturn %s.getReadOnlyProperty();\n", indent, indent, p.FieldName)
	} else {
		fmt.Fprintf(&b, "%spublic %s %sProperty() {\n", indent, p.FieldType, p.Name)
		fmt.Fprintf(&b, "%s%sreturn %s;\n", indent, indent, p.FieldName)
	}
	fmt.Fprintf(&b, "%s}\n", indent)

	getter := "get"
	if p.ValueType == "boolean" {
		getter = "is"
	}
	fmt.Fprintf(&b, "\n%spublic %s %s%s() {\n", indent, p.ValueType, getter, p.Capitalized())
	fmt.Fprintf(&b, "%s%sreturn %s.get();\n", indent, indent, p.FieldName)
	fmt.Fprintf(&b, "%s}\n", indent)

	if p.Kind.Writable() {
		fmt.Fprintf(&b, "\n%spublic void set%s(%s %s) {\n", indent, p.Capitalized(), p.ValueType, p.Name)
		fmt.Fprintf(&b, "%s%sthis.%s.set(%s);\n", indent, indent, p.FieldName, p.Name)
		fmt.Fprintf(&b, "%s}\n", indent)
	}

	return b.String()
}

// GeneratePropertyAccessors inserts accessors for the property field on line
// before the class closing brace.
func GeneratePropertyAccessors(path, text string, line int, cfg javatext.IndentConfig) ([]TextEdit, error) {
	lines := javatext.SplitLines(text)
	if line < 0 || line >= len(lines) {
		return nil, fmt.Errorf("line %d: %w", line, ErrNotProperty)
	}

	p, ok := ParsePropertyField(lines[line])
	if !ok {
		return nil, fmt.Errorf("line %d: %w", line, ErrNotProperty)
	}

	span, ok := javatext.FindClassSpan(text)
	if !ok {
		return nil, ErrNoClass
	}
	if hasAccessor(text, p.Name) {
		return nil, fmt.Errorf("%sProperty(): %w", p.Name, ErrAlreadyPresent)
	}

	indent := memberIndent(lines, span.DeclarationLine, cfg)
	return []TextEdit{{Path: path, Line: span.EndLine, Text: RenderAccessors(p, indent)}}, nil
}

func hasAccessor(text, name string) bool {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `Property\s*\(\s*\)\s*\{`)
	return pattern.MatchString(text)
}

// AccessorCandidates reports a hint on every property field that has no
// accessor yet.
func AccessorCandidates(path, text string) []check.Diagnostic {
	diags := []check.Diagnostic{}
	for i, line := range javatext.SplitLines(text) {
		p, ok := ParsePropertyField(line)
		if !ok || hasAccessor(text, p.Name) {
			continue
		}
		start := len(line) - len(strings.TrimLeft(line, " \t"))
		diags = append(diags, check.Diagnostic{
			Path:     path,
			Range:    check.Range{StartLine: i, StartCol: start, EndLine: i, EndCol: len(line)},
			Severity: check.SeverityHint,
			Message:  fmt.Sprintf("Can generate getter and setter for %s", p.Name),
			Code:     check.CodeAccessorsAvailable,
			Source:   check.SourceProperty,
		})
	}
	return diags
}

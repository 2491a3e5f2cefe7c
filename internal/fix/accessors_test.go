package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/javafx-support/internal/javatext"
)

// Test Plan for property accessors:
// - Basic, object, collection and wrapper fields are classified with their value types
// - Boxed type parameters map to primitives
// - Writable kinds get a setter, read-only kinds do not
// - Wrappers expose getReadOnlyProperty()
// - Existing accessors are not generated twice and no hint is reported

func TestParsePropertyField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line  string
		kind  PropertyKind
		value string
		name  string
	}{
		{"    private final StringProperty nameProperty = new SimpleStringProperty(this, \"name\");", KindBasicProperty, "String", "name"},
		{"BooleanProperty activeProp = new SimpleBooleanProperty();", KindBasicProperty, "boolean", "active"},
		{"ObjectProperty<Color> color = new SimpleObjectProperty<>();", KindObjectProperty, "Color", "color"},
		{"ObjectProperty<Integer> countProperty = new SimpleObjectProperty<>(0);", KindObjectProperty, "int", "count"},
		{"ObjectProperty countProperty = new SimpleObjectProperty<Long>(0L);", KindObjectProperty, "long", "count"},
		{"ListProperty<String> itemsProperty = new SimpleListProperty<>();", KindObjectProperty, "ObservableList<String>", "items"},
		{"ReadOnlyIntegerWrapper sizeWrapper = new ReadOnlyIntegerWrapper();", KindReadOnlyBasicWrapper, "int", "sizeWrapper"},
		{"ReadOnlyObjectWrapper<Node> focused = new ReadOnlyObjectWrapper<>();", KindReadOnlyObjectWrapper, "Node", "focused"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			p, ok := ParsePropertyField(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.kind, p.Kind)
			assert.Equal(t, tt.value, p.ValueType)
			assert.Equal(t, tt.name, p.Name)
		})
	}

	for _, line := range []string{
		"private String name;",
		"public StringProperty nameProperty() {",
		"ObjectProperty raw = new SimpleObjectProperty();",
	} {
		_, ok := ParsePropertyField(line)
		assert.False(t, ok, line)
	}
}

const model = `package com.example;

public class Person {
    private final StringProperty nameProperty = new SimpleStringProperty();
    private final ReadOnlyBooleanWrapper adultProperty = new ReadOnlyBooleanWrapper();
}
`

func TestGeneratePropertyAccessors_Writable(t *testing.T) {
	t.Parallel()

	edits, err := GeneratePropertyAccessors("/w/Person.java", model, 3, javatext.DefaultIndentConfig())
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, 5, edits[0].Line)

	text := edits[0].Text
	assert.Contains(t, text, "    // name\n    public StringProperty nameProperty() {\n        return nameProperty;\n    }\n")
	assert.Contains(t, text, "    public String getName() {\n        return nameProperty.get();\n    }\n")
	assert.Contains(t, text, "    public void setName(String name) {\n        this.nameProperty.set(name);\n    }\n")

	updated := ApplyEdits(model, edits)
	_, err = GeneratePropertyAccessors("/w/Person.java", updated, 3, javatext.DefaultIndentConfig())
	assert.ErrorIs(t, err, ErrAlreadyPresent)
}

func TestGeneratePropertyAccessors_Wrapper(t *testing.T) {
	t.Parallel()

	edits, err := GeneratePropertyAccessors("/w/Person.java", model, 4, javatext.DefaultIndentConfig())
	require.NoError(t, err)
	require.Len(t, edits, 1)

	text := edits[0].Text
	assert.Contains(t, text, "public ReadOnlyBooleanProperty adultProperty() {\n        return adultProperty.getReadOnlyProperty();")
	assert.Contains(t, text, "public boolean isAdult() {")
	assert.NotContains(t, text, "setAdult")
}

func TestGeneratePropertyAccessors_Errors(t *testing.T) {
	t.Parallel()

	_, err := GeneratePropertyAccessors("/w/Person.java", model, 0, javatext.DefaultIndentConfig())
	assert.ErrorIs(t, err, ErrNotProperty)

	_, err = GeneratePropertyAccessors("/w/Person.java", model, 99, javatext.DefaultIndentConfig())
	assert.ErrorIs(t, err, ErrNotProperty)

	_, err = GeneratePropertyAccessors("/w/x.java", "StringProperty a = new SimpleStringProperty();", 0, javatext.DefaultIndentConfig())
	assert.ErrorIs(t, err, ErrNoClass)
}

func TestAccessorCandidates(t *testing.T) {
	t.Parallel()

	diags := AccessorCandidates("/w/Person.java", model)
	require.Len(t, diags, 2)
	assert.Equal(t, "Can generate getter and setter for name", diags[0].Message)
	assert.Equal(t, 3, diags[0].Range.StartLine)
	assert.Equal(t, 4, diags[0].Range.StartCol)

	edits, err := GeneratePropertyAccessors("/w/Person.java", model, 3, javatext.DefaultIndentConfig())
	require.NoError(t, err)
	assert.Len(t, AccessorCandidates("/w/Person.java", ApplyEdits(model, edits)), 1)
}

package binding

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/tagcompiler/internal/node"
)

func TestParseLoop(t *testing.T) {
	tests := []struct {
		code     string
		expected Loop
		wantErr  bool
	}{
		{code: "item in items", expected: Loop{Item: "item", Collection: "items"}},
		{code: "  item of state.items  ", expected: Loop{Item: "item", Collection: "state.items"}},
		{code: "item, i in items", expected: Loop{Item: "item", Index: "i", Collection: "items"}},
		{code: "(item, i) in items.filter(x => x)", expected: Loop{Item: "item", Index: "i", Collection: "items.filter(x => x)"}},
		{code: "(item)in items", expected: Loop{Item: "item", Collection: "items"}},
		{code: "$row in rows", expected: Loop{Item: "$row", Collection: "rows"}},
		{code: "items", wantErr: true},
		{code: "item in", wantErr: true},
		{code: "(item, i in items", wantErr: true},
		{code: "1item in items", wantErr: true},
		{code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			loop, err := ParseLoop(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, loop)
		})
	}
}

func TestParts(t *testing.T) {
	text := "Hello { name }, you have {count} items"
	exprs := []node.Expression{
		{Text: " name ", Start: 6, End: 14},
		{Text: "count", Start: 25, End: 32},
	}

	parts := Parts(text, exprs)

	assert.Equal(t, []Part{
		{Text: "Hello "},
		{Text: "name", Expression: true},
		{Text: ", you have "},
		{Text: "count", Expression: true},
		{Text: " items"},
	}, parts)

	e := Expression{Type: TextExpression, Parts: parts}
	assert.Equal(t, "Hello {name}, you have {count} items", e.Source())
}

func TestPartsIgnoresBrokenOffsets(t *testing.T) {
	parts := Parts("abc", []node.Expression{{Text: "x", Start: 2, End: 10}})
	assert.Equal(t, []Part{{Text: "abc"}}, parts)
}

func TestExpressionTypeOf(t *testing.T) {
	assert.Equal(t, EventExpression, expressionTypeOf("onclick"))
	assert.Equal(t, ValueExpression, expressionTypeOf("value"))
	assert.Equal(t, AttributeExpression, expressionTypeOf("class"))
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "each", EachType.String())
	assert.Equal(t, "if", IfType.String())
	assert.Equal(t, "tag", TagType.String())
	assert.Equal(t, "simple", SimpleType.String())
	assert.Equal(t, "binding(9)", Type(9).String())
	assert.Equal(t, "event", EventExpression.String())
}

func TestBindingJSON(t *testing.T) {
	b := &IfBinding{
		Base:      Base{Type: IfType, Selector: "expr4", File: "x.tag"},
		Condition: "visible",
		Template:  Template{HTML: "<p>x</p>"},
	}

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "if", decoded["type"])
	assert.Equal(t, "expr4", decoded["selector"])
	assert.Equal(t, "visible", decoded["evaluate"])
}

func TestDefaultCompilerWithoutBuilder(t *testing.T) {
	c := NewDefaultCompiler(nil)
	n := &node.Node{Type: node.TagNode, Name: "p", Attributes: []node.Attribute{{Name: "if", Value: "ok", HasValue: true}}}

	_, err := c.If(n, "expr0", Source{})
	assert.True(t, errors.Is(err, ErrNoBuilder))
}

func TestDefaultCompilerTagName(t *testing.T) {
	build := func(root *node.Node) (Template, error) {
		return Template{HTML: node.String(root)}, nil
	}
	c := NewDefaultCompiler(build)
	n := &node.Node{
		Type: node.TagNode,
		Name: "div",
		Attributes: []node.Attribute{
			{Name: "expr0"},
			{Name: "is", Value: "my-card", HasValue: true},
		},
		Children: []*node.Node{{Type: node.TextNode, Text: "body"}},
	}

	b, err := c.Tag(n, "expr0", Source{File: "a.tag"})
	require.NoError(t, err)

	tag := b.(*TagBinding)
	assert.Equal(t, "my-card", tag.Name)
	assert.Equal(t, "a.tag", tag.File)
	assert.Equal(t, "body", tag.Slot.HTML)
	assert.Empty(t, tag.Attributes)
}

func TestDefaultCompilerStaticDirective(t *testing.T) {
	build := func(root *node.Node) (Template, error) { return Template{}, nil }
	c := NewDefaultCompiler(build)
	n := &node.Node{
		Type:       node.TagNode,
		Name:       "li",
		Attributes: []node.Attribute{{Name: "each", Value: "x in xs", HasValue: true}},
	}

	b, err := c.Each(n, "expr0", Source{})
	require.NoError(t, err)
	assert.Equal(t, "xs", b.(*EachBinding).Collection)
}

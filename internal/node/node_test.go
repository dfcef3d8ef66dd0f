package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(name string, attrs []Attribute, children ...*Node) *Node {
	return &Node{Type: TagNode, Name: name, Attributes: attrs, Children: children}
}

func text(s string) *Node {
	return &Node{Type: TextNode, Text: s}
}

func dynText(s string) *Node {
	return &Node{Type: TextNode, Text: s, Expressions: []Expression{{Text: s, Start: 0, End: len(s)}}}
}

func static(name, value string) Attribute {
	return Attribute{Name: name, Value: value, HasValue: true}
}

func dynamic(name, expr string) Attribute {
	return Attribute{
		Name:        name,
		Value:       "{" + expr + "}",
		HasValue:    true,
		Expressions: []Expression{{Text: expr, Start: 0, End: len(expr) + 2}},
	}
}

func TestClassifier(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		static  bool
		custom  bool
		void    bool
		ownTmpl bool
	}{
		{name: "plain text", node: text("hello"), static: true},
		{name: "dynamic text", node: dynText("{ msg }")},
		{name: "static tag", node: tag("p", []Attribute{static("class", "a")}, text("x")), static: true},
		{name: "void tag", node: tag("br", nil), static: true, void: true},
		{name: "uppercase void tag", node: tag("IMG", nil), static: true, void: true},
		{name: "dynamic attribute", node: tag("p", []Attribute{dynamic("class", "cls")})},
		{name: "dynamic descendant", node: tag("div", nil, tag("p", nil, dynText("{ x }")))},
		{name: "loop", node: tag("li", []Attribute{dynamic("each", "item in items")}), ownTmpl: true},
		{name: "conditional", node: tag("p", []Attribute{dynamic("if", "visible")}), ownTmpl: true},
		{name: "custom element", node: tag("my-child", nil), custom: true, ownTmpl: true},
		{name: "is attribute", node: tag("div", []Attribute{static("is", "my-child")}), custom: true, ownTmpl: true},
		{name: "reserved hyphenated name", node: tag("font-face", nil), static: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.static, IsStatic(tt.node), "IsStatic")
			assert.Equal(t, tt.custom, IsCustomElement(tt.node), "IsCustomElement")
			assert.Equal(t, tt.void, IsVoid(tt.node), "IsVoid")
			assert.Equal(t, tt.ownTmpl, HasItsOwnTemplate(tt.node), "HasItsOwnTemplate")
		})
	}
}

func TestKindPredicates(t *testing.T) {
	root := NewRoot([]*Node{text("a")})

	assert.True(t, IsRoot(root))
	assert.False(t, IsTag(root))
	assert.False(t, IsText(root))
	assert.True(t, IsText(root.Children[0]))
	assert.False(t, IsTag(nil))
	assert.False(t, IsVoid(text("br")))
	assert.False(t, HasEachAttribute(text("each")))
}

func TestDynamicAttributes(t *testing.T) {
	n := tag("a", []Attribute{
		static("href", "/"),
		dynamic("class", "cls"),
		dynamic("onclick", "handle"),
	})

	attrs := DynamicAttributes(n)
	require.Len(t, attrs, 2)
	assert.Equal(t, "class", attrs[0].Name)
	assert.Equal(t, "onclick", attrs[1].Name)
}

func TestWithSelector(t *testing.T) {
	original := tag("p", []Attribute{static("class", "a")})
	clone := original.WithSelector("expr3")

	require.Len(t, clone.Attributes, 2)
	assert.Equal(t, "expr3", clone.Attributes[0].Name)
	assert.False(t, clone.Attributes[0].HasValue)
	assert.Len(t, original.Attributes, 1, "parser output must not be mutated")
	assert.Equal(t, `<p expr3 class="a">`, OpenTag(clone))
}

func TestWithoutAttributes(t *testing.T) {
	original := tag("li", []Attribute{dynamic("each", "x in xs"), static("class", "row"), dynamic("if", "x")})
	clone := original.WithoutAttributes(EachAttribute, IfAttribute)

	require.Len(t, clone.Attributes, 1)
	assert.Equal(t, "class", clone.Attributes[0].Name)
	assert.Len(t, original.Attributes, 3)
}

func TestSerialization(t *testing.T) {
	t.Run("open tag drops expression attributes", func(t *testing.T) {
		n := tag("input", []Attribute{static("type", "text"), dynamic("value", "v"), {Name: "disabled"}})
		assert.Equal(t, `<input type="text" disabled/>`, OpenTag(n))
		assert.Equal(t, "", CloseTag(n))
	})

	t.Run("attribute values are escaped", func(t *testing.T) {
		n := tag("p", []Attribute{static("title", `say "hi" & go`)})
		assert.Equal(t, `<p title="say &quot;hi&quot; &amp; go">`, OpenTag(n))
	})

	t.Run("full subtree", func(t *testing.T) {
		n := tag("ul", nil, tag("li", nil, text("one")), tag("li", nil, text("two"), tag("br", nil)))
		assert.Equal(t, "<ul><li>one</li><li>two<br/></li></ul>", String(n))
	})

	t.Run("root has no markup of its own", func(t *testing.T) {
		root := NewRoot([]*Node{tag("b", nil, text("x")), text("y")})
		assert.Equal(t, "<b>x</b>y", String(root))
		assert.Equal(t, "", OpenTag(root))
		assert.Equal(t, "", CloseTag(root))
	})
}

func TestIndexOf(t *testing.T) {
	a, b := text("a"), text("b")
	parent := tag("p", nil, a, b)

	assert.Equal(t, 1, parent.IndexOf(b))
	assert.Equal(t, -1, parent.IndexOf(text("c")))
	assert.Equal(t, -1, (*Node)(nil).IndexOf(a))
}

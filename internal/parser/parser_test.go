package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/tagcompiler/internal/node"
)

const todoSource = `<todo-list>
  <h3>{ title }</h3>
  <ul>
    <li each="{ item in items }" class="row { item.done ? 'done' : '' }">{ item.label }</li>
  </ul>
  <input disabled>
  <style>
    :host { display: block }
  </style>
  <script type="text/javascript">
    export default { title: "x" }
  </script>
</todo-list>`

func TestParseComponent(t *testing.T) {
	c, err := Parse(todoSource, "todo.tag")
	require.NoError(t, err)

	assert.Equal(t, "todo-list", c.Name)
	assert.Equal(t, "todo.tag", c.File)

	require.NotNil(t, c.Style)
	assert.Contains(t, c.Style.Text, ":host { display: block }")

	require.NotNil(t, c.Script)
	assert.Equal(t, "javascript", c.Script.Type)
	assert.Contains(t, c.Script.Text, `title: "x"`)

	require.Len(t, c.Root.Children, 3, "style and script are not template children")
	assert.Equal(t, "h3", c.Root.Children[0].Name)
	assert.Equal(t, "ul", c.Root.Children[1].Name)
	assert.Equal(t, "input", c.Root.Children[2].Name)
}

func TestParseTextExpressions(t *testing.T) {
	c, err := Parse(todoSource, "todo.tag")
	require.NoError(t, err)

	h3 := c.Root.Children[0]
	require.Len(t, h3.Children, 1)

	text := h3.Children[0]
	assert.True(t, node.IsText(text))
	require.Len(t, text.Expressions, 1)
	assert.Equal(t, "title", text.Expressions[0].Text)
	assert.Equal(t, "{ title }", text.Text[text.Expressions[0].Start:text.Expressions[0].End])
}

func TestParseAttributes(t *testing.T) {
	c, err := Parse(todoSource, "todo.tag")
	require.NoError(t, err)

	li := c.Root.Children[1].Children[0]
	require.Equal(t, "li", li.Name)
	require.Len(t, li.Attributes, 2)

	each := li.Attributes[0]
	assert.Equal(t, "each", each.Name)
	assert.True(t, each.HasValue)
	require.Len(t, each.Expressions, 1)
	assert.Equal(t, "item in items", each.Expressions[0].Text)

	class := li.Attributes[1]
	require.Len(t, class.Expressions, 1)
	assert.Equal(t, "item.done ? 'done' : ''", class.Expressions[0].Text)

	input := c.Root.Children[2]
	require.Len(t, input.Attributes, 1)
	assert.Equal(t, "disabled", input.Attributes[0].Name)
	assert.False(t, input.Attributes[0].HasValue)
	assert.Empty(t, input.Children)
}

func TestParsePositions(t *testing.T) {
	c, err := Parse(todoSource, "todo.tag")
	require.NoError(t, err)

	h3 := c.Root.Children[0]
	assert.Equal(t, 2, h3.Line)
	assert.Equal(t, 3, h3.Column)
	assert.Equal(t, "<h3>", todoSource[h3.Start:h3.Start+4])
	assert.Equal(t, "</h3>", todoSource[h3.End-5:h3.End])

	li := c.Root.Children[1].Children[0]
	each := li.Attributes[0]
	assert.Equal(t, `each="{ item in items }"`, todoSource[each.Start:each.End])
}

func TestParseUnquotedExpressions(t *testing.T) {
	source := `<x-a><li each={ item in items } class={ cls } title=plain data-x=a{ b ? "c d" : 'e' }f>{ item }</li></x-a>`

	c, err := Parse(source, "a.tag")
	require.NoError(t, err)

	li := c.Root.Children[0]
	require.Len(t, li.Attributes, 4)

	tests := []struct {
		name  string
		value string
		expr  string
	}{
		{name: "each", value: "{ item in items }", expr: "item in items"},
		{name: "class", value: "{ cls }", expr: "cls"},
		{name: "title", value: "plain"},
		{name: "data-x", value: `a{ b ? "c d" : 'e' }f`, expr: `b ? "c d" : 'e'`},
	}
	for i, tt := range tests {
		attr := li.Attributes[i]
		assert.Equal(t, tt.name, attr.Name)
		assert.Equal(t, tt.value, attr.Value)
		assert.True(t, attr.HasValue)
		if tt.expr == "" {
			assert.Empty(t, attr.Expressions)
			continue
		}
		require.Len(t, attr.Expressions, 1, tt.name)
		assert.Equal(t, tt.expr, attr.Expressions[0].Text)
	}

	assert.Equal(t, "each={ item in items }", source[li.Attributes[0].Start:li.Attributes[0].End])

	require.Len(t, li.Children, 1)
	assert.Equal(t, "{ item }", li.Children[0].Text)
}

func TestParseExpressionsWithAngleBrackets(t *testing.T) {
	source := "<x-a><p if={ a<b }>{ a<b && c>d }</p><style>p { color: red }</style></x-a>"

	c, err := Parse(source, "a.tag")
	require.NoError(t, err)

	require.Len(t, c.Root.Children, 1)
	p := c.Root.Children[0]
	assert.Equal(t, "p", p.Name)
	require.Len(t, p.Attributes, 1)
	assert.Equal(t, "{ a<b }", p.Attributes[0].Value)

	require.Len(t, p.Children, 1)
	text := p.Children[0]
	assert.Equal(t, "{ a<b && c>d }", text.Text)
	require.Len(t, text.Expressions, 1)
	assert.Equal(t, "a<b && c>d", text.Expressions[0].Text)

	require.NotNil(t, c.Style)
	assert.Equal(t, "p { color: red }", c.Style.Text)
}

func TestParseWhitespace(t *testing.T) {
	source := "<x-a>\n  <b>1</b>\n</x-a>"

	c, err := Parse(source, "a.tag")
	require.NoError(t, err)
	assert.Len(t, c.Root.Children, 1)

	c, err = NewParser(Options{KeepWhitespace: true}).Parse(source, "a.tag")
	require.NoError(t, err)
	assert.Len(t, c.Root.Children, 3)
}

func TestParseErrors(t *testing.T) {
	t.Run("no component", func(t *testing.T) {
		_, err := Parse("just text", "a.tag")
		var target ErrNoComponent
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "a.tag", target.File)
	})

	t.Run("multiple components", func(t *testing.T) {
		_, err := Parse("<x-a></x-a><x-b></x-b>", "a.tag")
		var target ErrMultipleComponents
		require.True(t, errors.As(err, &target))
		assert.Equal(t, []string{"x-a", "x-b"}, target.Names)
	})

	t.Run("unclosed", func(t *testing.T) {
		_, err := Parse("<x-a><p>text", "a.tag")
		var target ErrUnclosedTag
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "p", target.Name)
	})

	t.Run("unexpected end tag", func(t *testing.T) {
		_, err := Parse("<x-a></p></x-a>", "a.tag")
		var target ErrUnexpectedEndTag
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "p", target.Name)
		assert.Contains(t, err.Error(), "a.tag:1:6")
	})

	t.Run("unterminated unquoted expression", func(t *testing.T) {
		_, err := Parse("<x-a><p class={ cls></p></x-a>", "a.tag")
		var target ErrUnquotedExpression
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "class", target.Attribute)
		assert.Contains(t, err.Error(), "a.tag:1:15")
	})

	t.Run("stray void end tag", func(t *testing.T) {
		c, err := Parse("<x-a><br></br></x-a>", "a.tag")
		require.NoError(t, err)
		assert.Len(t, c.Root.Children, 1)
	})
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "none", text: "plain text", expected: nil},
		{name: "single", text: "a {b} c", expected: []string{"b"}},
		{name: "several", text: "{a}{ b }", expected: []string{"a", "b"}},
		{name: "nested braces", text: "{ fn({ x: 1 }) }", expected: []string{"fn({ x: 1 })"}},
		{name: "brace in string", text: "{ '}' + a }", expected: []string{"'}' + a"}},
		{name: "escaped", text: `\{a} {b}`, expected: []string{"b"}},
		{name: "unbalanced", text: "{a} {b", expected: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range Expressions(tt.text) {
				got = append(got, e.Text)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLineIndex(t *testing.T) {
	lines := newLineIndex("ab\ncd\n\nef")

	pos := lines.position(0, 1)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 1, pos.Column)

	pos = lines.position(4, 5)
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 2, pos.Column)

	pos = lines.position(7, 9)
	assert.Equal(t, 4, pos.Line)
	assert.Equal(t, 1, pos.Column)
}

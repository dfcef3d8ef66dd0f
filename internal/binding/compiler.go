package binding

import (
	"errors"
	"strings"

	"github.com/livefir/tagcompiler/internal/node"
)

// ErrNoBuilder is returned when a binding needs a nested template but the
// compiler was created without a way to build one
var ErrNoBuilder = errors.New("binding: no nested template builder configured")

// Compiler turns a dynamic node into its binding descriptor. The tree builder
// calls exactly one of Each, If or Tag for a node owning its own template,
// and Attribute once per dynamic attribute otherwise. Text is used for
// dynamic text nodes, with the selector of their parent.
type Compiler interface {
	Each(n *node.Node, selector string, src Source) (Binding, error)
	If(n *node.Node, selector string, src Source) (Binding, error)
	Tag(n *node.Node, selector string, src Source) (Binding, error)
	Attribute(n *node.Node, attr node.Attribute, selector string, src Source) (Binding, error)
	Text(n *node.Node, selector string, index int, src Source) (Binding, error)
}

// BuildFunc compiles a synthetic root into a nested template
type BuildFunc func(root *node.Node) (Template, error)

// DefaultCompiler implements the four binding kinds
type DefaultCompiler struct {
	build BuildFunc
}

// NewDefaultCompiler creates a compiler building nested templates with build
func NewDefaultCompiler(build BuildFunc) *DefaultCompiler {
	return &DefaultCompiler{build: build}
}

// Each compiles a loop. The node itself, stripped of the loop attributes,
// becomes the template repeated for every item.
func (c *DefaultCompiler) Each(n *node.Node, selector string, src Source) (Binding, error) {
	attr, _ := n.Attribute(node.EachAttribute)
	code := expressionCode(attr)

	loop, err := ParseLoop(code)
	if err != nil {
		return nil, &ErrInvalidLoop{Expression: code, File: src.File, Position: attr.Position, Err: err}
	}

	b := &EachBinding{
		Base:       newBase(EachType, selector, src, n.Position),
		ItemName:   loop.Item,
		IndexName:  loop.Index,
		Collection: loop.Collection,
	}
	if cond, ok := n.Attribute(node.IfAttribute); ok {
		b.Condition = expressionCode(cond)
	}
	if key, ok := n.Attribute(node.KeyAttribute); ok {
		b.Key = expressionCode(key)
	}

	tmpl := n.WithoutAttributes(selector, node.EachAttribute, node.IfAttribute, node.KeyAttribute)
	b.Template, err = c.nested([]*node.Node{tmpl})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// If compiles a conditional around the node itself
func (c *DefaultCompiler) If(n *node.Node, selector string, src Source) (Binding, error) {
	attr, _ := n.Attribute(node.IfAttribute)

	b := &IfBinding{
		Base:      newBase(IfType, selector, src, n.Position),
		Condition: expressionCode(attr),
	}

	tmpl := n.WithoutAttributes(selector, node.IfAttribute)
	var err error
	b.Template, err = c.nested([]*node.Node{tmpl})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Tag compiles a nested component. Its children become the default slot.
func (c *DefaultCompiler) Tag(n *node.Node, selector string, src Source) (Binding, error) {
	name := n.Name
	if is, ok := n.Attribute(node.IsAttribute); ok && is.Value != "" && len(is.Expressions) == 0 {
		name = is.Value
	}

	b := &TagBinding{
		Base:       newBase(TagType, selector, src, n.Position),
		Name:       name,
		Attributes: []Expression{},
	}
	for _, attr := range node.DynamicAttributes(n) {
		b.Attributes = append(b.Attributes, attributeExpression(attr))
	}

	var err error
	b.Slot, err = c.nested(n.Children)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Attribute compiles a dynamic attribute of a plain element
func (c *DefaultCompiler) Attribute(n *node.Node, attr node.Attribute, selector string, src Source) (Binding, error) {
	return &SimpleBinding{
		Base:       newBase(SimpleType, selector, src, attr.Position),
		Expression: attributeExpression(attr),
	}, nil
}

// Text compiles a dynamic text node living at index among its siblings
func (c *DefaultCompiler) Text(n *node.Node, selector string, index int, src Source) (Binding, error) {
	return &SimpleBinding{
		Base: newBase(SimpleType, selector, src, n.Position),
		Expression: Expression{
			Type:       TextExpression,
			ChildIndex: index,
			Parts:      Parts(n.Text, n.Expressions),
		},
	}, nil
}

func (c *DefaultCompiler) nested(children []*node.Node) (Template, error) {
	if c.build == nil {
		return Template{}, ErrNoBuilder
	}
	tmpl, err := c.build(node.NewRoot(children))
	if err != nil {
		return Template{}, err
	}
	if tmpl.Bindings == nil {
		tmpl.Bindings = []Binding{}
	}
	return tmpl, nil
}

func newBase(t Type, selector string, src Source, pos node.Position) Base {
	return Base{
		Type:     t,
		Selector: selector,
		File:     src.File,
		Location: pos,
	}
}

func attributeExpression(attr node.Attribute) Expression {
	return Expression{
		Type:  expressionTypeOf(attr.Name),
		Name:  attr.Name,
		Parts: Parts(attr.Value, attr.Expressions),
	}
}

func expressionTypeOf(name string) ExpressionType {
	switch {
	case strings.HasPrefix(name, "on"):
		return EventExpression
	case name == "value":
		return ValueExpression
	default:
		return AttributeExpression
	}
}

// expressionCode returns the code of a directive attribute. Directives hold
// a single expression; a static value is taken as code.
func expressionCode(attr node.Attribute) string {
	if len(attr.Expressions) == 0 {
		return strings.TrimSpace(attr.Value)
	}
	codes := make([]string, len(attr.Expressions))
	for i, expr := range attr.Expressions {
		codes[i] = strings.TrimSpace(expr.Text)
	}
	return strings.Join(codes, " ")
}

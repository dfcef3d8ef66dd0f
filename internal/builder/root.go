package builder

import (
	"github.com/livefir/tagcompiler/internal/binding"
	"github.com/livefir/tagcompiler/internal/node"
)

// Params are the runtime-supplied arguments of a template factory: the
// template constructor, the expression and binding kind tables, and the
// component instance accessor.
var Params = []string{"template", "expressionTypes", "bindingTypes", "getComponent"}

// Factory describes the template factory handed to the code emitter
type Factory struct {
	Params   []string          `json:"params"`
	HTML     string            `json:"html"`
	Bindings []binding.Binding `json:"bindings"`
}

// Assemble compiles the template of a component. The component's children
// are wrapped in a synthetic root and built once with a fresh allocator.
func Assemble(component *node.Node, src binding.Source, opts ...Option) (*Factory, error) {
	tmpl, err := New(src, opts...).Build(CreateRoot(component))
	if err != nil {
		return nil, err
	}

	return &Factory{
		Params:   Params,
		HTML:     tmpl.HTML,
		Bindings: tmpl.Bindings,
	}, nil
}

// CreateRoot wraps the template children of a component node. Style and
// script blocks are not part of the template.
func CreateRoot(component *node.Node) *node.Node {
	if component == nil {
		return node.NewRoot(nil)
	}
	if node.IsRoot(component) {
		return component
	}

	children := make([]*node.Node, 0, len(component.Children))
	for _, child := range component.Children {
		if node.IsTag(child) && (child.Name == "style" || child.Name == "script") {
			continue
		}
		children = append(children, child)
	}
	return node.NewRoot(children)
}

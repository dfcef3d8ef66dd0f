// Package builder walks a parsed template tree and produces the static HTML
// skeleton of a component together with the ordered list of its bindings.
package builder

import (
	"log"
	"strings"

	"github.com/livefir/tagcompiler/internal/binding"
	"github.com/livefir/tagcompiler/internal/node"
	"github.com/livefir/tagcompiler/internal/selector"
)

// Builder compiles node trees of one component. Nested templates built by
// binding compilers share the builder, and therefore its selector allocator.
type Builder struct {
	src      binding.Source
	compiler binding.Compiler
	factory  CompilerFactory
	alloc    *selector.Allocator
	debug    bool
}

// CompilerFactory creates binding compilers that build nested templates
// through the given function
type CompilerFactory func(build binding.BuildFunc) binding.Compiler

// Option is a functional option for configuring a Builder
type Option func(*Builder)

// WithCompiler replaces the default binding compilers
func WithCompiler(c binding.Compiler) Option {
	return func(b *Builder) {
		b.compiler = c
	}
}

// WithCompilerFactory replaces the default binding compilers with ones that
// need the builder for their nested templates
func WithCompilerFactory(f CompilerFactory) Option {
	return func(b *Builder) {
		b.factory = f
	}
}

// WithAllocator sets the selector allocator, mostly useful in tests
func WithAllocator(a *selector.Allocator) Option {
	return func(b *Builder) {
		b.alloc = a
	}
}

// WithDebug logs every dispatch decision
func WithDebug(enabled bool) Option {
	return func(b *Builder) {
		b.debug = enabled
	}
}

// New creates a builder for the given component source
func New(src binding.Source, opts ...Option) *Builder {
	b := &Builder{src: src}
	for _, opt := range opts {
		opt(b)
	}
	if b.alloc == nil {
		b.alloc = selector.NewAllocator()
	}
	if b.compiler == nil && b.factory != nil {
		b.compiler = b.factory(b.Build)
	}
	if b.compiler == nil {
		b.compiler = binding.NewDefaultCompiler(b.Build)
	}
	return b
}

// state is the output handle threaded through one template's recursion.
// Every call appends to the same buffers, so fragments land in document
// order: opening tags before children, closing tags after them.
type state struct {
	html     strings.Builder
	bindings []binding.Binding
}

// parentRef is what a text node needs to know about its parent
type parentRef struct {
	node     *node.Node
	selector string
}

// Build compiles n into a template. Bindings is never nil, so templates
// without bindings serialize as an empty list.
func (b *Builder) Build(n *node.Node) (binding.Template, error) {
	st := &state{bindings: []binding.Binding{}}
	if err := b.build(n, parentRef{}, st); err != nil {
		return binding.Template{}, err
	}
	return binding.Template{
		HTML:     st.html.String(),
		Bindings: st.bindings,
	}, nil
}

// SelectorsAllocated returns how many binding selectors were handed out
func (b *Builder) SelectorsAllocated() int {
	return b.alloc.Count()
}

func (b *Builder) build(n *node.Node, parent parentRef, st *state) error {
	if node.IsStatic(n) {
		st.html.WriteString(node.String(n))
		return nil
	}

	if node.IsText(n) {
		return b.text(n, parent, st)
	}

	current := parentRef{node: n}
	ownTemplate := false
	if node.IsTag(n) {
		var err error
		current.selector, ownTemplate, err = b.tag(n, st)
		if err != nil {
			return err
		}
	}

	if !ownTemplate {
		for _, child := range n.Children {
			if err := b.build(child, current, st); err != nil {
				return err
			}
		}
	}

	if node.IsTag(n) && !node.IsVoid(n) {
		st.html.WriteString(node.CloseTag(n))
	}
	return nil
}

// text binds a dynamic text node. It leaves no markup: the runtime creates
// the text slot at the recorded child index.
func (b *Builder) text(n *node.Node, parent parentRef, st *state) error {
	index := 0
	if parent.node != nil {
		index = parent.node.IndexOf(n)
	}

	bd, err := b.compiler.Text(n, parent.selector, index, b.src)
	if err != nil {
		return err
	}
	if b.debug {
		log.Printf("BUILDER: text binding on %q at child index %d", parent.selector, index)
	}
	st.bindings = append(st.bindings, bd)
	return nil
}

// tag writes the opening tag of a dynamic element and its bindings. It
// reports whether the element's children belong to a nested template.
func (b *Builder) tag(n *node.Node, st *state) (string, bool, error) {
	sel := b.alloc.Next()
	clone := n.WithSelector(sel)
	st.html.WriteString(node.OpenTag(clone))

	kind := classify(clone)
	if b.debug {
		log.Printf("BUILDER: <%s> %s -> %s", n.Name, sel, kind)
	}

	var (
		bd  binding.Binding
		err error
	)
	switch kind {
	case dispatchEach:
		bd, err = b.compiler.Each(clone, sel, b.src)
	case dispatchIf:
		bd, err = b.compiler.If(clone, sel, b.src)
	case dispatchTag:
		bd, err = b.compiler.Tag(clone, sel, b.src)
	default:
		for _, attr := range node.DynamicAttributes(clone) {
			bd, err := b.compiler.Attribute(clone, attr, sel, b.src)
			if err != nil {
				return sel, false, err
			}
			st.bindings = append(st.bindings, bd)
		}
		return sel, false, nil
	}
	if err != nil {
		return sel, true, err
	}

	st.bindings = append(st.bindings, bd)
	return sel, true, nil
}

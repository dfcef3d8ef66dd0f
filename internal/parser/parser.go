// Package parser turns component source into the node tree consumed by the
// template builder. It tokenizes instead of building an HTML5 document, so
// custom tags, attribute order and raw text are kept exactly as written.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/livefir/tagcompiler/internal/node"
)

// Options controls how source is turned into nodes
type Options struct {
	// KeepWhitespace keeps whitespace-only text nodes between tags
	KeepWhitespace bool
}

// Style is the stylesheet block of a component
type Style struct {
	Text       string
	Type       string
	Attributes []node.Attribute
	node.Position
}

// Script is the script block of a component
type Script struct {
	Text string
	Type string
	node.Position
}

// Component is a parsed component file
type Component struct {
	Name string
	// Root is the component element; its children are the template only
	Root   *node.Node
	Style  *Style
	Script *Script
	File   string
	Source string
}

// Parser converts component source into a Component
type Parser struct {
	opts Options
}

// NewParser creates a parser with the given options
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse parses source with default options
func Parse(source, file string) (*Component, error) {
	return NewParser(Options{}).Parse(source, file)
}

// Parse converts the source of one component file
func (p *Parser) Parse(source, file string) (*Component, error) {
	roots, err := p.parseNodes(source, file)
	if err != nil {
		return nil, err
	}

	var tops []*node.Node
	for _, n := range roots {
		if node.IsTag(n) {
			tops = append(tops, n)
		}
	}
	if len(tops) == 0 {
		return nil, ErrNoComponent{File: file}
	}
	if len(tops) > 1 {
		return nil, ErrMultipleComponents{File: file, Names: tagNames(tops)}
	}

	return p.component(tops[0], source, file), nil
}

func (p *Parser) component(host *node.Node, source, file string) *Component {
	c := &Component{
		Name:   host.Name,
		File:   file,
		Source: source,
	}

	root := *host
	root.Children = make([]*node.Node, 0, len(host.Children))
	for _, child := range host.Children {
		switch {
		case node.IsTag(child) && child.Name == "style" && c.Style == nil:
			c.Style = newStyle(child)
		case node.IsTag(child) && child.Name == "script" && c.Script == nil:
			c.Script = newScript(child)
		default:
			root.Children = append(root.Children, child)
		}
	}
	c.Root = &root
	return c
}

func (p *Parser) parseNodes(source, file string) ([]*node.Node, error) {
	lines := newLineIndex(source)
	masked, err := maskExpressions(source, file, lines)
	if err != nil {
		return nil, err
	}
	z := html.NewTokenizer(strings.NewReader(masked))

	var (
		roots  []*node.Node
		stack  []*node.Node
		offset int
	)

	appendNode := func(n *node.Node) {
		if len(stack) == 0 {
			roots = append(roots, n)
			return
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, n)
	}

	for {
		tt := z.Next()
		start := offset
		offset += len(z.Raw())
		raw := source[start:offset]

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				if len(stack) > 0 {
					open := stack[len(stack)-1]
					return nil, ErrUnclosedTag{File: file, Name: open.Name, Position: open.Position}
				}
				return roots, nil
			}
			return nil, fmt.Errorf("failed to tokenize %s: %w", file, z.Err())

		case html.TextToken:
			var parent *node.Node
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			if n := p.textNode(raw, parent, lines.position(start, offset)); n != nil {
				appendNode(n)
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			n := &node.Node{
				Type:       node.TagNode,
				Name:       tok.Data,
				Attributes: attributes(tok.Attr, raw, masked[start:offset], start, lines),
				Position:   lines.position(start, offset),
			}
			appendNode(n)
			if tt == html.StartTagToken && !node.IsVoid(n) {
				stack = append(stack, n)
			}

		case html.EndTagToken:
			tok := z.Token()
			i := len(stack) - 1
			for i >= 0 && stack[i].Name != tok.Data {
				i--
			}
			if i < 0 {
				if node.IsVoid(&node.Node{Type: node.TagNode, Name: tok.Data}) {
					continue
				}
				return nil, ErrUnexpectedEndTag{File: file, Name: tok.Data, Position: lines.position(start, offset)}
			}
			for _, open := range stack[i:] {
				open.End = offset
			}
			stack = stack[:i]
		}
	}
}

// textNode builds a text node, or returns nil for ignorable whitespace
func (p *Parser) textNode(raw string, parent *node.Node, pos node.Position) *node.Node {
	rawText := parent != nil && (parent.Name == "style" || parent.Name == "script")
	if !rawText && !p.opts.KeepWhitespace && strings.TrimSpace(raw) == "" {
		return nil
	}

	n := &node.Node{
		Type:     node.TextNode,
		Text:     raw,
		Position: pos,
	}
	if !rawText {
		n.Expressions = Expressions(raw)
	}
	return n
}

func newStyle(n *node.Node) *Style {
	s := &Style{
		Text:       textContent(n),
		Attributes: n.Attributes,
		Position:   n.Position,
	}
	if attr, ok := n.Attribute("type"); ok {
		s.Type = strings.TrimPrefix(attr.Value, "text/")
	}
	return s
}

func newScript(n *node.Node) *Script {
	s := &Script{
		Text:     textContent(n),
		Position: n.Position,
	}
	if attr, ok := n.Attribute("type"); ok {
		s.Type = strings.TrimPrefix(attr.Value, "text/")
	}
	return s
}

func textContent(n *node.Node) string {
	var b strings.Builder
	for _, child := range n.Children {
		if node.IsText(child) {
			b.WriteString(child.Text)
		}
	}
	return b.String()
}

func tagNames(nodes []*node.Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}

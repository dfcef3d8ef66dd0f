package node

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// voidElements are the HTML elements that never get a closing tag
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// reservedCustomNames are hyphenated names owned by SVG and MathML that can
// never be registered as custom elements
var reservedCustomNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// IsText checks if the node is a text node
func IsText(n *Node) bool {
	return n != nil && n.Type == TextNode
}

// IsTag checks if the node is a tag node
func IsTag(n *Node) bool {
	return n != nil && n.Type == TagNode
}

// IsRoot checks if the node is a synthetic root
func IsRoot(n *Node) bool {
	return n != nil && n.Type == RootNode
}

// IsVoid checks if the node is a tag that cannot be closed
func IsVoid(n *Node) bool {
	if !IsTag(n) {
		return false
	}
	return voidElements[atom.Lookup([]byte(strings.ToLower(n.Name)))]
}

// IsCustomElement checks if the tag name follows the custom element naming
// convention, or the node is upgraded through a static `is` attribute.
func IsCustomElement(n *Node) bool {
	if !IsTag(n) {
		return false
	}
	if attr, ok := n.Attribute(IsAttribute); ok && attr.Value != "" {
		return true
	}
	name := strings.ToLower(n.Name)
	return strings.Contains(name, "-") && !reservedCustomNames[name]
}

// HasExpressions checks the node's own text and attributes for expressions
func HasExpressions(n *Node) bool {
	if n == nil {
		return false
	}
	if len(n.Expressions) > 0 {
		return true
	}
	for _, attr := range n.Attributes {
		if len(attr.Expressions) > 0 {
			return true
		}
	}
	return false
}

// HasEachAttribute checks if the node is a loop
func HasEachAttribute(n *Node) bool {
	return IsTag(n) && n.HasAttribute(EachAttribute)
}

// HasIfAttribute checks if the node is a conditional
func HasIfAttribute(n *Node) bool {
	return IsTag(n) && n.HasAttribute(IfAttribute)
}

// HasItsOwnTemplate checks if the node children are compiled as a separate
// nested template by its binding
func HasItsOwnTemplate(n *Node) bool {
	return HasEachAttribute(n) || HasIfAttribute(n) || IsCustomElement(n)
}

// IsStatic checks that neither the node nor any of its descendants needs a
// binding, so the whole subtree can be emitted as literal markup.
func IsStatic(n *Node) bool {
	if n == nil {
		return true
	}
	if HasExpressions(n) || HasItsOwnTemplate(n) {
		return false
	}
	for _, child := range n.Children {
		if !IsStatic(child) {
			return false
		}
	}
	return true
}

// DynamicAttributes returns the attributes carrying expressions, in order
func DynamicAttributes(n *Node) []Attribute {
	if n == nil {
		return nil
	}
	var attrs []Attribute
	for _, attr := range n.Attributes {
		if len(attr.Expressions) > 0 {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

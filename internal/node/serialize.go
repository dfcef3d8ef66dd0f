package node

import (
	"strings"
)

// OpenTag renders the opening tag of a tag node. Attributes bound to
// expressions are left out: their values are set at runtime by bindings.
func OpenTag(n *Node) string {
	if !IsTag(n) {
		return ""
	}

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.Name)
	for _, attr := range n.Attributes {
		if len(attr.Expressions) > 0 {
			continue
		}
		b.WriteString(" ")
		b.WriteString(attr.Name)
		if attr.HasValue {
			b.WriteString(`="`)
			b.WriteString(escapeAttribute(attr.Value))
			b.WriteString(`"`)
		}
	}
	if IsVoid(n) {
		b.WriteString("/>")
	} else {
		b.WriteString(">")
	}
	return b.String()
}

// CloseTag renders the closing tag of a tag node
func CloseTag(n *Node) string {
	if !IsTag(n) || IsVoid(n) {
		return ""
	}
	return "</" + n.Name + ">"
}

// String renders the node and its whole subtree as literal markup
func String(n *Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Type {
	case TextNode:
		b.WriteString(n.Text)
	case TagNode:
		b.WriteString(OpenTag(n))
		for _, child := range n.Children {
			write(b, child)
		}
		b.WriteString(CloseTag(n))
	case RootNode:
		for _, child := range n.Children {
			write(b, child)
		}
	}
}

func escapeAttribute(value string) string {
	if !strings.ContainsAny(value, `"&`) {
		return value
	}
	value = strings.ReplaceAll(value, "&", "&amp;")
	return strings.ReplaceAll(value, `"`, "&quot;")
}

package node

// Type identifies the kind of a parsed template node
type Type int

const (
	TextNode Type = iota
	TagNode
	RootNode
)

func (t Type) String() string {
	switch t {
	case TextNode:
		return "text"
	case TagNode:
		return "tag"
	case RootNode:
		return "root"
	default:
		return "unknown"
	}
}

// Attribute names with a special meaning for the tree builder
const (
	EachAttribute = "each"
	IfAttribute   = "if"
	KeyAttribute  = "key"
	IsAttribute   = "is"
)

// Position locates a node or attribute in the component source.
// Start and End are byte offsets, Line and Column are 1-based.
type Position struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Expression is a `{...}` region inside a text node or attribute value.
// Start and End are offsets into the owning text, delimiters included.
type Expression struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Attribute is a single attribute of a tag node. A nil Expressions slice
// means the value is static.
type Attribute struct {
	Name        string
	Value       string
	HasValue    bool
	Expressions []Expression
	Position
}

// Node is a parsed template element. Nodes produced by the parser are treated
// as immutable: the compiler only derives clones from them.
type Node struct {
	Type        Type
	Name        string
	Attributes  []Attribute
	Children    []*Node
	Text        string
	Expressions []Expression
	Position
}

// NewRoot wraps a list of nodes into a synthetic root node
func NewRoot(children []*Node) *Node {
	return &Node{
		Type:     RootNode,
		Children: children,
	}
}

// Attribute returns the attribute with the given name
func (n *Node) Attribute(name string) (Attribute, bool) {
	if n == nil {
		return Attribute{}, false
	}
	for _, attr := range n.Attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// HasAttribute checks if the node carries an attribute with the given name
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// WithSelector derives a shallow clone of the node with the binding selector
// prepended to its attribute list as a valueless attribute.
func (n *Node) WithSelector(selector string) *Node {
	clone := *n
	attrs := make([]Attribute, 0, len(n.Attributes)+1)
	attrs = append(attrs, Attribute{Name: selector})
	attrs = append(attrs, n.Attributes...)
	clone.Attributes = attrs
	return &clone
}

// WithoutAttributes derives a shallow clone of the node without the named attributes
func (n *Node) WithoutAttributes(names ...string) *Node {
	clone := *n
	attrs := make([]Attribute, 0, len(n.Attributes))
	for _, attr := range n.Attributes {
		if !containsName(names, attr.Name) {
			attrs = append(attrs, attr)
		}
	}
	clone.Attributes = attrs
	return &clone
}

// IndexOf returns the position of child among the node's children, or -1
func (n *Node) IndexOf(child *Node) int {
	if n == nil {
		return -1
	}
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

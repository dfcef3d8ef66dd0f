package binding

import (
	"fmt"
	"strings"

	"github.com/livefir/tagcompiler/internal/node"
)

// Type identifies the runtime mechanism behind a binding
type Type int

const (
	EachType Type = iota
	IfType
	TagType
	SimpleType
)

func (t Type) String() string {
	switch t {
	case EachType:
		return "each"
	case IfType:
		return "if"
	case TagType:
		return "tag"
	case SimpleType:
		return "simple"
	default:
		return fmt.Sprintf("binding(%d)", int(t))
	}
}

// MarshalText encodes the type by name
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ExpressionType identifies what a simple binding updates
type ExpressionType int

const (
	TextExpression ExpressionType = iota
	AttributeExpression
	EventExpression
	ValueExpression
)

func (t ExpressionType) String() string {
	switch t {
	case TextExpression:
		return "text"
	case AttributeExpression:
		return "attribute"
	case EventExpression:
		return "event"
	case ValueExpression:
		return "value"
	default:
		return fmt.Sprintf("expression(%d)", int(t))
	}
}

// MarshalText encodes the expression type by name
func (t ExpressionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Part is a chunk of a text or attribute value: either literal text or the
// code of an expression
type Part struct {
	Text       string `json:"text"`
	Expression bool   `json:"expression,omitempty"`
}

// Expression is the target of a simple binding
type Expression struct {
	Type ExpressionType `json:"type"`
	// Name is the attribute or event name, empty for text expressions
	Name string `json:"name,omitempty"`
	// ChildIndex locates a text expression among its parent's children
	ChildIndex int    `json:"childNodeIndex"`
	Parts      []Part `json:"parts"`
}

// Source renders the expression back in template syntax
func (e Expression) Source() string {
	var b strings.Builder
	for _, p := range e.Parts {
		if p.Expression {
			b.WriteString("{" + p.Text + "}")
		} else {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// Source identifies the component being compiled
type Source struct {
	File string
	Code string
}

// Binding links a marked element of the generated HTML to a runtime update
type Binding interface {
	BindingType() Type
	BindingSelector() string
}

// Base holds the fields shared by every binding kind
type Base struct {
	Type     Type          `json:"type"`
	Selector string        `json:"selector"`
	File     string        `json:"file,omitempty"`
	Location node.Position `json:"location"`
}

// BindingType returns the binding kind
func (b Base) BindingType() Type { return b.Type }

// BindingSelector returns the marker attribute the binding is attached to
func (b Base) BindingSelector() string { return b.Selector }

// Template is a static HTML skeleton together with its bindings
type Template struct {
	HTML     string    `json:"html"`
	Bindings []Binding `json:"bindings"`
}

// EachBinding repeats its template for every item of a collection
type EachBinding struct {
	Base
	ItemName   string   `json:"itemName"`
	IndexName  string   `json:"indexName,omitempty"`
	Collection string   `json:"evaluate"`
	Condition  string   `json:"condition,omitempty"`
	Key        string   `json:"getKey,omitempty"`
	Template   Template `json:"template"`
}

// IfBinding mounts its template while the condition holds
type IfBinding struct {
	Base
	Condition string   `json:"evaluate"`
	Template  Template `json:"template"`
}

// TagBinding mounts a nested component
type TagBinding struct {
	Base
	Name       string       `json:"name"`
	Attributes []Expression `json:"attributes"`
	Slot       Template     `json:"slot"`
}

// SimpleBinding updates a text slot, an attribute, an event handler or a value
type SimpleBinding struct {
	Base
	Expression Expression `json:"expression"`
}

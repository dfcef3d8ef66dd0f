package parser

import (
	"fmt"
	"strings"

	"github.com/livefir/tagcompiler/internal/node"
)

// ErrNoComponent is returned when the source holds no component element
type ErrNoComponent struct {
	File string
}

func (e ErrNoComponent) Error() string {
	return fmt.Sprintf("%s: no component element found", e.File)
}

// ErrMultipleComponents is returned when the source holds several top-level elements
type ErrMultipleComponents struct {
	File  string
	Names []string
}

func (e ErrMultipleComponents) Error() string {
	return fmt.Sprintf("%s: expected a single component element, found %s", e.File, strings.Join(e.Names, ", "))
}

// ErrUnclosedTag is returned when the source ends with open elements
type ErrUnclosedTag struct {
	File     string
	Name     string
	Position node.Position
}

func (e ErrUnclosedTag) Error() string {
	return fmt.Sprintf("%s:%d:%d: <%s> is never closed", e.File, e.Position.Line, e.Position.Column, e.Name)
}

// ErrUnexpectedEndTag is returned for a closing tag without an open element
type ErrUnexpectedEndTag struct {
	File     string
	Name     string
	Position node.Position
}

func (e ErrUnexpectedEndTag) Error() string {
	return fmt.Sprintf("%s:%d:%d: unexpected </%s>", e.File, e.Position.Line, e.Position.Column, e.Name)
}

// ErrUnquotedExpression is returned for an unquoted attribute value whose
// `{` is never closed
type ErrUnquotedExpression struct {
	File      string
	Attribute string
	Position  node.Position
}

func (e ErrUnquotedExpression) Error() string {
	return fmt.Sprintf("%s:%d:%d: unterminated expression in %s attribute", e.File, e.Position.Line, e.Position.Column, e.Attribute)
}

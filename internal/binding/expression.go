package binding

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/livefir/tagcompiler/internal/node"
)

// loop patterns match `item in list`, `item, index in list` and the
// parenthesized `(item, index) in list`; `of` is accepted in place of `in`
var (
	loopPattern      = regexp.MustCompile(`^([A-Za-z_$][\w$]*)(?:\s*,\s*([A-Za-z_$][\w$]*))?\s+(?:in|of)\s+(\S[\s\S]*)$`)
	parenLoopPattern = regexp.MustCompile(`^\(\s*([A-Za-z_$][\w$]*)(?:\s*,\s*([A-Za-z_$][\w$]*))?\s*\)\s*(?:in|of)\s+(\S[\s\S]*)$`)
)

var errLoopSyntax = errors.New("expected `item in collection` or `(item, index) in collection`")

// Loop is the decomposed `each` directive
type Loop struct {
	Item       string
	Index      string
	Collection string
}

// ParseLoop splits an `each` expression into its variables and collection
func ParseLoop(code string) (Loop, error) {
	code = strings.TrimSpace(code)

	pattern := loopPattern
	if strings.HasPrefix(code, "(") {
		pattern = parenLoopPattern
	}
	m := pattern.FindStringSubmatch(code)
	if m == nil {
		return Loop{}, errLoopSyntax
	}
	return Loop{
		Item:       m[1],
		Index:      m[2],
		Collection: strings.TrimSpace(m[3]),
	}, nil
}

// Parts splits text into literal chunks and expression code, in order.
// Expression offsets are relative to text and include the braces.
func Parts(text string, exprs []node.Expression) []Part {
	var parts []Part
	pos := 0
	for _, expr := range exprs {
		if expr.Start < pos || expr.End > len(text) || expr.Start > expr.End {
			continue
		}
		if expr.Start > pos {
			parts = append(parts, Part{Text: text[pos:expr.Start]})
		}
		parts = append(parts, Part{Text: strings.TrimSpace(expr.Text), Expression: true})
		pos = expr.End
	}
	if pos < len(text) {
		parts = append(parts, Part{Text: text[pos:]})
	}
	return parts
}

// ErrInvalidLoop is returned when an `each` directive cannot be parsed
type ErrInvalidLoop struct {
	Expression string
	File       string
	Position   node.Position
	Err        error
}

func (e *ErrInvalidLoop) Error() string {
	return fmt.Sprintf("%s:%d:%d: invalid each expression %q: %v", e.File, e.Position.Line, e.Position.Column, e.Expression, e.Err)
}

func (e *ErrInvalidLoop) Unwrap() error {
	return e.Err
}

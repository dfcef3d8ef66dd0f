package parser

import (
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/livefir/tagcompiler/internal/node"
)

// rawAttribute is an attribute located in the raw text of a start tag
type rawAttribute struct {
	start      int
	end        int
	valueStart int
	valueEnd   int
	hasValue   bool
}

// attributes converts tokenizer attributes, recovering their offsets and
// whether a value was written at all from the raw tag text. The tokenizer
// reads the masked tag, so unquoted values holding expressions are taken
// back from raw.
func attributes(attrs []html.Attribute, raw, masked string, tagStart int, lines lineIndex) []node.Attribute {
	if len(attrs) == 0 {
		return nil
	}

	located := scanAttributes(masked)
	if len(located) != len(attrs) {
		located = nil
	}

	result := make([]node.Attribute, len(attrs))
	for i, a := range attrs {
		attr := node.Attribute{
			Name:     a.Key,
			Value:    a.Val,
			HasValue: a.Val != "",
		}
		if located != nil {
			loc := located[i]
			attr.HasValue = loc.hasValue
			attr.Position = lines.position(tagStart+loc.start, tagStart+loc.end)
			if value := raw[loc.valueStart:loc.valueEnd]; value != masked[loc.valueStart:loc.valueEnd] {
				attr.Value = value
			}
		} else {
			attr.Position = lines.position(tagStart, tagStart+len(raw))
		}
		attr.Expressions = Expressions(attr.Value)
		result[i] = attr
	}
	return result
}

// scanAttributes walks a raw start tag such as `<a href="x" disabled>`
func scanAttributes(raw string) []rawAttribute {
	var found []rawAttribute

	i := 1
	for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '>' && raw[i] != '/' {
		i++
	}

	for i < len(raw) {
		for i < len(raw) && (isTagSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			break
		}

		attr := rawAttribute{start: i}
		i++
		for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '=' && raw[i] != '>' && raw[i] != '/' {
			i++
		}

		j := i
		for j < len(raw) && isTagSpace(raw[j]) {
			j++
		}
		if j < len(raw) && raw[j] == '=' {
			attr.hasValue = true
			i = j + 1
			for i < len(raw) && isTagSpace(raw[i]) {
				i++
			}
			if i < len(raw) && (raw[i] == '"' || raw[i] == '\'') {
				quote := raw[i]
				attr.valueStart = i + 1
				end := strings.IndexByte(raw[i+1:], quote)
				if end < 0 {
					i = len(raw)
					attr.valueEnd = i
				} else {
					attr.valueEnd = i + 1 + end
					i += end + 2
				}
			} else {
				attr.valueStart = i
				for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '>' {
					i++
				}
				attr.valueEnd = i
			}
		}
		attr.end = i
		found = append(found, attr)
	}
	return found
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// Expressions finds the `{...}` regions of text. Braces nest, and braces
// inside quoted strings within an expression do not count. An unbalanced
// opening brace leaves the rest of the text literal.
func Expressions(text string) []node.Expression {
	var exprs []node.Expression

	for i := 0; i < len(text); i++ {
		if text[i] != '{' || isEscaped(text, i) {
			continue
		}

		end := matchBrace(text, i)
		if end < 0 {
			break
		}
		exprs = append(exprs, node.Expression{
			Text:  strings.TrimSpace(text[i+1 : end]),
			Start: i,
			End:   end + 1,
		})
		i = end
	}
	return exprs
}

// matchBrace returns the index of the brace closing the one at open
func matchBrace(text string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// lineIndex maps byte offsets to line and column numbers
type lineIndex []int

func newLineIndex(source string) lineIndex {
	starts := lineIndex{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (l lineIndex) position(start, end int) node.Position {
	line := sort.Search(len(l), func(i int) bool { return l[i] > start }) - 1
	if line < 0 {
		line = 0
	}
	return node.Position{
		Start:  start,
		End:    end,
		Line:   line + 1,
		Column: start - l[line] + 1,
	}
}

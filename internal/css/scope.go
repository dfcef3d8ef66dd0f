// Package css rewrites component stylesheets so that their rules only apply
// inside the component subtree.
//
// The input is plain CSS, already produced by any language preprocessor.
// Selector lists are located with a single forward scan that keeps track of
// quoted strings, escapes and comments, so braces or commas inside string
// literals never act as structure.
package css

import (
	"strings"
)

// HostMarker is the pseudo-class standing for the component root element
const HostMarker = ":host"

// selectorsBlacklist holds keyframe selectors that must never be scoped
var selectorsBlacklist = map[string]bool{
	"from": true,
	"to":   true,
}

type scanMode int

const (
	modeNormal scanMode = iota
	modeSingleQuote
	modeDoubleQuote
	modeEscape
	modeComment
)

// Scope rewrites every selector list in css so it only matches inside
// elements named tag, or elements upgraded with is="tag".
func Scope(css, tag string) string {
	if tag == "" || css == "" {
		return css
	}

	var out strings.Builder
	out.Grow(len(css) + len(css)/2)

	segStart := 0
	mode := modeNormal
	resume := modeNormal

	for i := 0; i < len(css); i++ {
		c := css[i]

		switch mode {
		case modeEscape:
			mode = resume
			continue
		case modeSingleQuote, modeDoubleQuote:
			switch {
			case c == '\\':
				resume, mode = mode, modeEscape
			case c == '\n':
				// strings cannot span lines, an unterminated one ends here
				mode = modeNormal
			case c == '\'' && mode == modeSingleQuote, c == '"' && mode == modeDoubleQuote:
				mode = modeNormal
			}
			continue
		case modeComment:
			if c == '*' && i+1 < len(css) && css[i+1] == '/' {
				mode = modeNormal
				i++
			}
			continue
		}

		switch c {
		case '\\':
			resume, mode = modeNormal, modeEscape
		case '\'':
			mode = modeSingleQuote
		case '"':
			mode = modeDoubleQuote
		case '/':
			if i+1 < len(css) && css[i+1] == '*' {
				mode = modeComment
				i++
			}
		case '{':
			out.WriteString(scopeSegment(css[segStart:i], tag))
			out.WriteByte('{')
			segStart = i + 1
		case '}', ';':
			out.WriteString(css[segStart : i+1])
			segStart = i + 1
		}
	}

	out.WriteString(css[segStart:])
	return out.String()
}

// scopeSegment scopes the text found between a boundary and an opening
// brace. At-rule preludes and declaration fragments are returned unchanged.
func scopeSegment(segment, tag string) string {
	start := skipPrefix(segment)
	end := len(segment)
	for end > start && isSpace(segment[end-1]) {
		end--
	}

	list := segment[start:end]
	if list == "" || list[0] == '@' || list[len(list)-1] == ':' {
		return segment
	}

	return segment[:start] + ScopeSelectorList(list, tag) + segment[end:]
}

// skipPrefix returns the length of the leading separators, whitespace and
// comments of a segment
func skipPrefix(segment string) int {
	i := 0
	for i < len(segment) {
		switch {
		case segment[i] == ';' || isSpace(segment[i]):
			i++
		case strings.HasPrefix(segment[i:], "/*"):
			end := strings.Index(segment[i+2:], "*/")
			if end < 0 {
				return i
			}
			i += end + 4
		default:
			return i
		}
	}
	return i
}

// ScopeSelectorList scopes each comma separated selector of list.
//
// Commas inside quoted strings are respected, commas inside parentheses are
// not: a functional pseudo-class with several arguments such as
// `:not(.a, .b)` is split in the middle.
func ScopeSelectorList(list, tag string) string {
	selectors := splitSelectors(list)
	for i, sel := range selectors {
		selectors[i] = ScopeSelector(sel, tag)
	}
	return strings.Join(selectors, ",")
}

// ScopeSelector scopes a single selector. Selectors that must stay global
// are returned verbatim, everything else expands to exactly two selectors.
func ScopeSelector(sel, tag string) string {
	s := strings.TrimSpace(sel)

	if s == "" || selectorsBlacklist[s] || strings.HasSuffix(s, "%") {
		return sel
	}
	if strings.HasPrefix(s, tag) {
		return sel
	}

	isSelector := `[is="` + tag + `"]`
	if !strings.Contains(s, HostMarker) {
		return tag + " " + s + "," + isSelector + " " + s
	}
	return strings.ReplaceAll(s, HostMarker, tag) + "," + strings.ReplaceAll(s, HostMarker, isSelector)
}

// splitSelectors splits on commas outside of quoted strings. Comments are
// dropped, so a comma inside one never splits the list.
func splitSelectors(list string) []string {
	var (
		parts []string
		part  strings.Builder
	)
	mode := modeNormal
	resume := modeNormal

	for i := 0; i < len(list); i++ {
		c := list[i]
		switch mode {
		case modeComment:
			if c == '*' && i+1 < len(list) && list[i+1] == '/' {
				mode = modeNormal
				i++
			}
			continue
		case modeEscape:
			mode = resume
		case modeSingleQuote, modeDoubleQuote:
			switch {
			case c == '\\':
				resume, mode = mode, modeEscape
			case c == '\'' && mode == modeSingleQuote, c == '"' && mode == modeDoubleQuote:
				mode = modeNormal
			}
		default:
			switch c {
			case '\\':
				resume, mode = modeNormal, modeEscape
			case '\'':
				mode = modeSingleQuote
			case '"':
				mode = modeDoubleQuote
			case '/':
				if i+1 < len(list) && list[i+1] == '*' {
					mode = modeComment
					i++
					continue
				}
			case ',':
				parts = append(parts, part.String())
				part.Reset()
				continue
			}
		}
		part.WriteByte(c)
	}

	return append(parts, part.String())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

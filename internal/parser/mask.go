package parser

import (
	"strings"
)

// maskExpressions blanks the inside of every `{...}` region that the HTML
// tokenizer would otherwise misread: `<` in text starting a tag, or
// whitespace splitting an unquoted attribute value. The result has the same
// length as source, so tokenizer offsets still index into source. Quoted
// attribute values, comments and the bodies of style and script are kept.
func maskExpressions(source, file string, lines lineIndex) (string, error) {
	buf := []byte(source)

	i := 0
	for i < len(source) {
		switch {
		case strings.HasPrefix(source[i:], "<!--"):
			end := strings.Index(source[i+4:], "-->")
			if end < 0 {
				return string(buf), nil
			}
			i += 4 + end + 3

		case source[i] == '<' && i+1 < len(source) && isLetter(source[i+1]):
			next, name, err := maskTag(buf, source, i, file, lines)
			if err != nil {
				return "", err
			}
			i = next
			if name == "style" || name == "script" {
				i = skipRawText(source, i, name)
			}

		case source[i] == '<' && i+1 < len(source) && (source[i+1] == '/' || source[i+1] == '!' || source[i+1] == '?'):
			end := strings.IndexByte(source[i:], '>')
			if end < 0 {
				return string(buf), nil
			}
			i += end + 1

		case source[i] == '{' && !isEscaped(source, i):
			end := matchBrace(source, i)
			if end < 0 {
				// left literal, like Expressions does
				i++
				continue
			}
			blank(buf, i+1, end)
			i = end + 1

		default:
			i++
		}
	}
	return string(buf), nil
}

// maskTag masks the unquoted attribute values of the start tag at i. It
// returns the offset after the tag and the lower-cased tag name.
func maskTag(buf []byte, source string, i int, file string, lines lineIndex) (int, string, error) {
	i++
	nameStart := i
	for i < len(source) && !isTagSpace(source[i]) && source[i] != '>' && source[i] != '/' {
		i++
	}
	name := strings.ToLower(source[nameStart:i])

	for i < len(source) {
		switch source[i] {
		case '>':
			return i + 1, name, nil
		case '=':
			attr := attributeNameBefore(source, i)
			i++
			for i < len(source) && isTagSpace(source[i]) {
				i++
			}
			if i >= len(source) {
				return i, name, nil
			}
			if q := source[i]; q == '"' || q == '\'' {
				end := strings.IndexByte(source[i+1:], q)
				if end < 0 {
					return len(source), name, nil
				}
				i += end + 2
				continue
			}
			next, err := maskUnquoted(buf, source, i, attr, file, lines)
			if err != nil {
				return 0, name, err
			}
			i = next
		default:
			i++
		}
	}
	return i, name, nil
}

// maskUnquoted walks an unquoted attribute value. It ends at whitespace or
// `>` like any unquoted value, except inside a brace region.
func maskUnquoted(buf []byte, source string, i int, attr, file string, lines lineIndex) (int, error) {
	start := i
	for i < len(source) && !isTagSpace(source[i]) && source[i] != '>' {
		if source[i] != '{' || isEscaped(source, i) {
			i++
			continue
		}
		end := matchBrace(source, i)
		if end < 0 {
			return 0, ErrUnquotedExpression{
				File:      file,
				Attribute: attr,
				Position:  lines.position(start, len(source)),
			}
		}
		blank(buf, i+1, end)
		i = end + 1
	}
	return i, nil
}

// attributeNameBefore returns the attribute name ending just before the `=` at eq
func attributeNameBefore(source string, eq int) string {
	end := eq
	for end > 0 && isTagSpace(source[end-1]) {
		end--
	}
	start := end
	for start > 0 && !isTagSpace(source[start-1]) && source[start-1] != '"' && source[start-1] != '\'' && source[start-1] != '/' {
		start--
	}
	return strings.ToLower(source[start:end])
}

// skipRawText returns the offset of the end tag closing a style or script body
func skipRawText(source string, i int, name string) int {
	closing := "</" + name
	for ; i+len(closing) <= len(source); i++ {
		if strings.EqualFold(source[i:i+len(closing)], closing) {
			return i
		}
	}
	return len(source)
}

func blank(buf []byte, from, to int) {
	for k := from; k < to; k++ {
		buf[k] = '_'
	}
}

func isEscaped(text string, i int) bool {
	return i > 0 && text[i-1] == '\\'
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

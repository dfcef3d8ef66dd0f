package sourcemap

import (
	"fmt"
	"strings"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift        = 5
	vlqContinuation = 1 << vlqShift
	vlqMask         = vlqContinuation - 1
)

var base64Index = func() [256]int {
	var idx [256]int
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(base64Chars); i++ {
		idx[base64Chars[i]] = i
	}
	return idx
}()

// Segment is one decoded mapping entry. Columns and lines are zero-based.
type Segment struct {
	GeneratedColumn int
	SourceIndex     int
	SourceLine      int
	SourceColumn    int
	NameIndex       int
	HasSource       bool
	HasName         bool
}

// ErrInvalidMappings reports a malformed mappings string
type ErrInvalidMappings struct {
	Offset int
	Reason string
}

func (e ErrInvalidMappings) Error() string {
	return fmt.Sprintf("invalid source map mappings at offset %d: %s", e.Offset, e.Reason)
}

// Decode parses a v3 mappings string into segments grouped by generated line
func Decode(mappings string) ([][]Segment, error) {
	var (
		lines  [][]Segment
		line   []Segment
		source int
		srcLn  int
		srcCol int
		name   int
	)

	i := 0
	for i <= len(mappings) {
		if i == len(mappings) || mappings[i] == ';' {
			lines = append(lines, line)
			line = nil
			i++
			continue
		}
		if mappings[i] == ',' {
			i++
			continue
		}

		var fields []int
		genCol := 0
		if len(line) > 0 {
			genCol = line[len(line)-1].GeneratedColumn
		}
		for i < len(mappings) && mappings[i] != ',' && mappings[i] != ';' {
			v, n, err := decodeValue(mappings, i)
			if err != nil {
				return nil, err
			}
			fields = append(fields, v)
			i += n
		}

		seg := Segment{GeneratedColumn: genCol + fields[0]}
		switch len(fields) {
		case 1:
		case 4, 5:
			source += fields[1]
			srcLn += fields[2]
			srcCol += fields[3]
			seg.HasSource = true
			seg.SourceIndex, seg.SourceLine, seg.SourceColumn = source, srcLn, srcCol
			if len(fields) == 5 {
				name += fields[4]
				seg.HasName = true
				seg.NameIndex = name
			}
		default:
			return nil, ErrInvalidMappings{Offset: i, Reason: fmt.Sprintf("segment has %d fields", len(fields))}
		}
		line = append(line, seg)
	}
	return lines, nil
}

// Encode serializes segments grouped by generated line into a mappings string
func Encode(lines [][]Segment) string {
	var (
		b      strings.Builder
		source int
		srcLn  int
		srcCol int
		name   int
	)

	for l, line := range lines {
		if l > 0 {
			b.WriteByte(';')
		}
		genCol := 0
		for s, seg := range line {
			if s > 0 {
				b.WriteByte(',')
			}
			encodeValue(&b, seg.GeneratedColumn-genCol)
			genCol = seg.GeneratedColumn
			if !seg.HasSource {
				continue
			}
			encodeValue(&b, seg.SourceIndex-source)
			encodeValue(&b, seg.SourceLine-srcLn)
			encodeValue(&b, seg.SourceColumn-srcCol)
			source, srcLn, srcCol = seg.SourceIndex, seg.SourceLine, seg.SourceColumn
			if seg.HasName {
				encodeValue(&b, seg.NameIndex-name)
				name = seg.NameIndex
			}
		}
	}
	return b.String()
}

func encodeValue(b *strings.Builder, v int) {
	var vlq int
	if v < 0 {
		vlq = (-v << 1) | 1
	} else {
		vlq = v << 1
	}
	for {
		digit := vlq & vlqMask
		vlq >>= vlqShift
		if vlq > 0 {
			digit |= vlqContinuation
		}
		b.WriteByte(base64Chars[digit])
		if vlq == 0 {
			return
		}
	}
}

func decodeValue(s string, start int) (int, int, error) {
	var (
		result int
		shift  uint
	)
	for i := start; i < len(s); i++ {
		digit := base64Index[s[i]]
		if digit < 0 {
			return 0, 0, ErrInvalidMappings{Offset: i, Reason: fmt.Sprintf("unexpected character %q", s[i])}
		}
		result += (digit & vlqMask) << shift
		shift += vlqShift
		if digit&vlqContinuation == 0 {
			value := result >> 1
			if result&1 == 1 {
				value = -value
			}
			return value, i - start + 1, nil
		}
	}
	return 0, 0, ErrInvalidMappings{Offset: len(s), Reason: "unterminated value"}
}

// Package sourcemap holds version 3 source maps and composes the maps
// produced by successive compile stages.
package sourcemap

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Version is the source map format version written by this package
const Version = 3

// Map is a version 3 source map
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// New returns the identity map of source: every generated line maps to the
// same line of file.
func New(file, source string) *Map {
	count := strings.Count(source, "\n") + 1
	lines := make([][]Segment, count)
	for i := range lines {
		lines[i] = []Segment{{HasSource: true, SourceLine: i}}
	}
	return &Map{
		Version:        Version,
		File:           file,
		Sources:        []string{file},
		SourcesContent: []string{source},
		Names:          []string{},
		Mappings:       Encode(lines),
	}
}

// Parse decodes a JSON source map
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse source map: %w", err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("unsupported source map version %d", m.Version)
	}
	if _, err := Decode(m.Mappings); err != nil {
		return nil, err
	}
	return &m, nil
}

// JSON encodes the map
func (m *Map) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// Lookup finds the segment covering a zero-based generated position
func (m *Map) Lookup(line, column int) (Segment, bool, error) {
	lines, err := Decode(m.Mappings)
	if err != nil {
		return Segment{}, false, err
	}
	seg, ok := lookup(lines, line, column)
	return seg, ok, nil
}

func lookup(lines [][]Segment, line, column int) (Segment, bool) {
	if line < 0 || line >= len(lines) {
		return Segment{}, false
	}
	segs := lines[line]
	i := sort.Search(len(segs), func(i int) bool { return segs[i].GeneratedColumn > column }) - 1
	if i < 0 || !segs[i].HasSource {
		return Segment{}, false
	}
	return segs[i], true
}

// Compose returns a map from the generated code of next straight back to the
// sources of prev, where next was produced from the output prev describes.
// Segments of next that land outside prev are dropped.
func Compose(prev, next *Map) (*Map, error) {
	if prev == nil {
		return next, nil
	}
	if next == nil {
		return prev, nil
	}

	prevLines, err := Decode(prev.Mappings)
	if err != nil {
		return nil, fmt.Errorf("failed to decode previous map: %w", err)
	}
	nextLines, err := Decode(next.Mappings)
	if err != nil {
		return nil, fmt.Errorf("failed to decode next map: %w", err)
	}

	composed := make([][]Segment, len(nextLines))
	for l, line := range nextLines {
		for _, seg := range line {
			if !seg.HasSource {
				continue
			}
			orig, ok := lookup(prevLines, seg.SourceLine, seg.SourceColumn)
			if !ok {
				continue
			}
			orig.GeneratedColumn = seg.GeneratedColumn
			composed[l] = append(composed[l], orig)
		}
	}

	file := next.File
	if file == "" {
		file = prev.File
	}
	return &Map{
		Version:        Version,
		File:           file,
		SourceRoot:     prev.SourceRoot,
		Sources:        prev.Sources,
		SourcesContent: prev.SourcesContent,
		Names:          prev.Names,
		Mappings:       Encode(composed),
	}, nil
}

package tagcompiler

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/livefir/tagcompiler/internal/builder"
	"github.com/livefir/tagcompiler/internal/sourcemap"
)

// Template is the compiled template factory of a component
type Template = builder.Factory

// Component is everything an emitter needs to write a compiled component
type Component struct {
	Tag      string
	File     string
	Source   string
	CSS      string
	Template *Template
	// Line and Column locate the component element in the source, zero-based
	Line   int
	Column int
}

// Emitter turns a compiled component into code
type Emitter interface {
	Emit(c *Component) (code string, m *sourcemap.Map, err error)
}

// JSONEmitter writes components as plain JSON data
type JSONEmitter struct {
	Indent string
}

type jsonComponent struct {
	Tag      string    `json:"tag"`
	CSS      string    `json:"css"`
	Template *Template `json:"template"`
}

// Emit encodes the component. Every generated line maps to the component
// element in the source.
func (e JSONEmitter) Emit(c *Component) (string, *sourcemap.Map, error) {
	var (
		data []byte
		err  error
	)
	payload := jsonComponent{Tag: c.Tag, CSS: c.CSS, Template: c.Template}
	if e.Indent != "" {
		data, err = json.MarshalIndent(payload, "", e.Indent)
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode component %s: %w", c.Tag, err)
	}

	code := string(data)
	lines := make([][]sourcemap.Segment, strings.Count(code, "\n")+1)
	for i := range lines {
		lines[i] = []sourcemap.Segment{{HasSource: true, SourceLine: c.Line, SourceColumn: c.Column}}
	}

	m := sourcemap.New(c.File, c.Source)
	m.File = strings.TrimSuffix(c.File, filepath.Ext(c.File)) + ".json"
	m.Mappings = sourcemap.Encode(lines)
	return code, m, nil
}

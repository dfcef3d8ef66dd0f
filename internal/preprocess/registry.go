// Package preprocess keeps the language preprocessors that turn component
// sections written in another language (a style `type` such as scss) into
// the plain form the compiler understands.
package preprocess

import (
	"fmt"
	"sort"
	"sync"

	"github.com/livefir/tagcompiler/internal/sourcemap"
)

// Kind is the component section a preprocessor applies to
type Kind string

const (
	TemplateKind   Kind = "template"
	CSSKind        Kind = "css"
	JavascriptKind Kind = "javascript"
)

// Meta describes the source being preprocessed
type Meta struct {
	File    string
	Tag     string
	Options map[string]string
}

// Result is the output of a preprocessor
type Result struct {
	Code string
	Map  *sourcemap.Map
}

// Func transforms source of one kind
type Func func(source string, meta Meta) (Result, error)

// ErrAlreadyRegistered is returned when a name is registered twice for a kind
type ErrAlreadyRegistered struct {
	Kind Kind
	Name string
}

func (e ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("the %q %s preprocessor was already registered", e.Name, e.Kind)
}

// ErrNotRegistered is returned for a name that was never registered
type ErrNotRegistered struct {
	Kind Kind
	Name string
}

func (e ErrNotRegistered) Error() string {
	return fmt.Sprintf("the %q %s preprocessor was not registered", e.Name, e.Kind)
}

// ErrUnknownKind is returned for a kind outside the known sections
type ErrUnknownKind struct {
	Kind Kind
}

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown preprocessor kind %q", string(e.Kind))
}

// Registry maps (kind, name) pairs to preprocessors
type Registry struct {
	mu    sync.RWMutex
	funcs map[Kind]map[string]Func
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		funcs: map[Kind]map[string]Func{
			TemplateKind:   {},
			CSSKind:        {},
			JavascriptKind: {},
		},
	}
}

// Register adds a preprocessor
func (r *Registry) Register(kind Kind, name string, fn Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byName, ok := r.funcs[kind]
	if !ok {
		return ErrUnknownKind{Kind: kind}
	}
	if _, exists := byName[name]; exists {
		return ErrAlreadyRegistered{Kind: kind, Name: name}
	}
	byName[name] = fn
	return nil
}

// Unregister removes a preprocessor
func (r *Registry) Unregister(kind Kind, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byName, ok := r.funcs[kind]
	if !ok {
		return ErrUnknownKind{Kind: kind}
	}
	if _, exists := byName[name]; !exists {
		return ErrNotRegistered{Kind: kind, Name: name}
	}
	delete(byName, name)
	return nil
}

// Names lists the registered preprocessors of a kind in sorted order
func (r *Registry) Names(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs[kind]))
	for name := range r.funcs[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the named preprocessor. An empty name returns the source untouched.
func (r *Registry) Execute(kind Kind, name, source string, meta Meta) (Result, error) {
	if name == "" {
		return Result{Code: source}, nil
	}

	r.mu.RLock()
	fn, ok := r.funcs[kind][name]
	r.mu.RUnlock()
	if !ok {
		return Result{}, ErrNotRegistered{Kind: kind, Name: name}
	}

	result, err := fn(source, meta)
	if err != nil {
		return Result{}, fmt.Errorf("%s preprocessor %q failed on %s: %w", kind, name, meta.File, err)
	}
	return result, nil
}

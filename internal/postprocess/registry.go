// Package postprocess runs the transformations applied to generated code
// after a compile. A Registry belongs to one compiler instance, so separate
// compilers never observe each other's postprocessors.
package postprocess

import (
	"fmt"
	"sync"

	"github.com/livefir/tagcompiler/internal/sourcemap"
)

// Meta describes the compiled component
type Meta struct {
	File    string
	Tag     string
	Source  string
	Options map[string]string
}

// Output is generated code with its source map
type Output struct {
	Code string
	Map  *sourcemap.Map
}

// Postprocessor transforms generated code
type Postprocessor interface {
	Name() string
	Process(code string, meta Meta) (Output, error)
}

type namedFunc struct {
	name string
	fn   func(code string, meta Meta) (Output, error)
}

func (n namedFunc) Name() string { return n.name }

func (n namedFunc) Process(code string, meta Meta) (Output, error) {
	return n.fn(code, meta)
}

// Named wraps a function as a Postprocessor
func Named(name string, fn func(code string, meta Meta) (Output, error)) Postprocessor {
	return namedFunc{name: name, fn: fn}
}

// ErrAlreadyRegistered is returned when a postprocessor name is registered twice
type ErrAlreadyRegistered struct {
	Name string
}

func (e ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("the postprocessor %q was already registered", e.Name)
}

// ErrNotRegistered is returned when removing a postprocessor that was never registered
type ErrNotRegistered struct {
	Name string
}

func (e ErrNotRegistered) Error() string {
	return fmt.Sprintf("the postprocessor %q was never registered", e.Name)
}

// ErrFailed wraps an error returned by a postprocessor
type ErrFailed struct {
	Name string
	File string
	Err  error
}

func (e *ErrFailed) Error() string {
	return fmt.Sprintf("postprocessor %q failed on %s: %v", e.Name, e.File, e.Err)
}

func (e *ErrFailed) Unwrap() error {
	return e.Err
}

// Registry is an ordered set of postprocessors
type Registry struct {
	mu    sync.RWMutex
	procs []Postprocessor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a postprocessor. Names must be unique.
func (r *Registry) Register(p Postprocessor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(p.Name()) >= 0 {
		return ErrAlreadyRegistered{Name: p.Name()}
	}
	r.procs = append(r.procs, p)
	return nil
}

// Unregister removes a postprocessor by name
func (r *Registry) Unregister(p Postprocessor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(p.Name())
	if i < 0 {
		return ErrNotRegistered{Name: p.Name()}
	}
	r.procs = append(r.procs[:i:i], r.procs[i+1:]...)
	return nil
}

// Len returns the number of registered postprocessors
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.procs)
}

// Execute folds the output through every postprocessor in registration order,
// composing each stage's map with the one before it.
func (r *Registry) Execute(out Output, meta Meta) (Output, error) {
	r.mu.RLock()
	procs := make([]Postprocessor, len(r.procs))
	copy(procs, r.procs)
	r.mu.RUnlock()

	for _, p := range procs {
		next, err := p.Process(out.Code, meta)
		if err != nil {
			return Output{}, &ErrFailed{Name: p.Name(), File: meta.File, Err: err}
		}
		composed, err := sourcemap.Compose(out.Map, next.Map)
		if err != nil {
			return Output{}, &ErrFailed{Name: p.Name(), File: meta.File, Err: err}
		}
		out = Output{Code: next.Code, Map: composed}
	}
	return out, nil
}

func (r *Registry) indexOf(name string) int {
	for i, p := range r.procs {
		if p.Name() == name {
			return i
		}
	}
	return -1
}

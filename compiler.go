// Package tagcompiler compiles single-file components into a static HTML
// skeleton, an ordered list of bindings and component-scoped CSS.
package tagcompiler

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/livefir/tagcompiler/internal/binding"
	"github.com/livefir/tagcompiler/internal/builder"
	"github.com/livefir/tagcompiler/internal/css"
	"github.com/livefir/tagcompiler/internal/metrics"
	"github.com/livefir/tagcompiler/internal/node"
	"github.com/livefir/tagcompiler/internal/parser"
	"github.com/livefir/tagcompiler/internal/postprocess"
	"github.com/livefir/tagcompiler/internal/preprocess"
	"github.com/livefir/tagcompiler/internal/selector"
	"github.com/livefir/tagcompiler/internal/sourcemap"
)

// Version of the compiler
const Version = "0.1.0"

// Re-exported registry types, so callers can register processors without
// reaching into internal packages
type (
	Postprocessor     = postprocess.Postprocessor
	PostprocessMeta   = postprocess.Meta
	PostprocessOutput = postprocess.Output
	PreprocessorKind  = preprocess.Kind
	PreprocessFunc    = preprocess.Func
	PreprocessMeta    = preprocess.Meta
	PreprocessResult  = preprocess.Result
	CompilerFactory   = builder.CompilerFactory
)

// Preprocessor kinds
const (
	TemplateKind   = preprocess.TemplateKind
	CSSKind        = preprocess.CSSKind
	JavascriptKind = preprocess.JavascriptKind
)

// NamedPostprocessor wraps a function as a Postprocessor
func NamedPostprocessor(name string, fn func(code string, meta PostprocessMeta) (PostprocessOutput, error)) Postprocessor {
	return postprocess.Named(name, fn)
}

// Config holds compiler configuration
type Config struct {
	ScopedCSS      bool               // Scope component styles to the component tag
	Minify         bool               // Minify the generated CSS
	KeepWhitespace bool               // Keep whitespace-only text between tags
	Debug          bool               // Log pipeline decisions
	SelectorPrefix string             `validate:"required,alpha,max=32"`
	Emitter        Emitter            `validate:"required"`
	Metrics        *metrics.Collector `validate:"required"`
	// BindingCompiler replaces the default EACH/IF/TAG/SIMPLE compilers
	BindingCompiler CompilerFactory
}

// Option is a functional option for configuring a Compiler
type Option func(*Config)

// WithScopedCSS enables or disables CSS scoping
func WithScopedCSS(enabled bool) Option {
	return func(c *Config) {
		c.ScopedCSS = enabled
	}
}

// WithMinify enables CSS minification
func WithMinify(enabled bool) Option {
	return func(c *Config) {
		c.Minify = enabled
	}
}

// WithKeepWhitespace keeps whitespace-only text nodes in templates
func WithKeepWhitespace(enabled bool) Option {
	return func(c *Config) {
		c.KeepWhitespace = enabled
	}
}

// WithDebug enables debug logging
func WithDebug(enabled bool) Option {
	return func(c *Config) {
		c.Debug = enabled
	}
}

// WithSelectorPrefix sets the prefix of binding selectors
func WithSelectorPrefix(prefix string) Option {
	return func(c *Config) {
		c.SelectorPrefix = prefix
	}
}

// WithEmitter sets the code emitter
func WithEmitter(e Emitter) Option {
	return func(c *Config) {
		c.Emitter = e
	}
}

// WithBindingCompiler replaces the default binding compilers
func WithBindingCompiler(f CompilerFactory) Option {
	return func(c *Config) {
		c.BindingCompiler = f
	}
}

// WithMetrics shares a metrics collector between compilers
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// Meta describes a compiled component
type Meta struct {
	Tag    string
	File   string
	Source string
}

// Output is the result of compiling one component
type Output struct {
	Code     string
	Map      *sourcemap.Map
	Meta     Meta
	CSS      string
	Template *Template
}

// Compiler compiles components. A Compiler is safe for concurrent use and
// owns its pre- and postprocessor registries.
type Compiler struct {
	config         Config
	parser         *parser.Parser
	preprocessors  *preprocess.Registry
	postprocessors *postprocess.Registry
}

var validate = validator.New()

// New creates a compiler with the given options
func New(opts ...Option) (*Compiler, error) {
	config := Config{
		ScopedCSS:      true,
		SelectorPrefix: selector.DefaultPrefix,
		Emitter:        JSONEmitter{},
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Metrics == nil {
		config.Metrics = metrics.NewCollector()
	}

	if err := validate.Struct(config); err != nil {
		if multi := ValidationToMultiError(err); len(multi) > 0 {
			return nil, multi
		}
		return nil, err
	}

	return &Compiler{
		config:         config,
		parser:         parser.NewParser(parser.Options{KeepWhitespace: config.KeepWhitespace}),
		preprocessors:  preprocess.NewRegistry(),
		postprocessors: postprocess.NewRegistry(),
	}, nil
}

// Config returns a copy of the compiler configuration
func (c *Compiler) Config() Config {
	return c.config
}

// Metrics returns the compiler's metrics collector
func (c *Compiler) Metrics() *metrics.Collector {
	return c.config.Metrics
}

// RegisterPostprocessor appends a postprocessor to this compiler
func (c *Compiler) RegisterPostprocessor(p Postprocessor) error {
	return c.postprocessors.Register(p)
}

// UnregisterPostprocessor removes a postprocessor from this compiler
func (c *Compiler) UnregisterPostprocessor(p Postprocessor) error {
	return c.postprocessors.Unregister(p)
}

// RegisterPreprocessor adds a language preprocessor for one kind of section
func (c *Compiler) RegisterPreprocessor(kind PreprocessorKind, name string, fn PreprocessFunc) error {
	return c.preprocessors.Register(kind, name, fn)
}

// UnregisterPreprocessor removes a language preprocessor
func (c *Compiler) UnregisterPreprocessor(kind PreprocessorKind, name string) error {
	return c.preprocessors.Unregister(kind, name)
}

// ScopeCSS scopes every selector of a stylesheet to tag
func ScopeCSS(stylesheet, tag string) string {
	return css.Scope(stylesheet, tag)
}

// Compile compiles the source of one component file
func (c *Compiler) Compile(source, file string) (*Output, error) {
	start := time.Now()
	out, err := c.compile(source, file)
	if err != nil {
		c.config.Metrics.IncrementCompileError()
		if c.config.Debug {
			log.Printf("COMPILER: %s failed: %v", file, err)
		}
		return nil, err
	}
	c.config.Metrics.RecordCompile(time.Since(start))
	return out, nil
}

func (c *Compiler) compile(source, file string) (*Output, error) {
	meta := Meta{File: file, Source: source}

	pre, err := c.preprocessTemplate(source, file)
	if err != nil {
		return nil, &CompileError{File: file, Stage: stageParse, Err: err}
	}

	component, err := c.parser.Parse(pre, file)
	if err != nil {
		return nil, &CompileError{File: file, Stage: stageParse, Err: err}
	}
	meta.Tag = component.Name
	if c.config.Debug {
		log.Printf("COMPILER: compiling <%s> from %s", component.Name, file)
	}

	tmpl, err := c.CompileTemplate(component.Root, file, pre)
	if err != nil {
		return nil, &CompileError{File: file, Stage: stageTemplate, Err: err}
	}

	stylesheet, err := c.generateCSS(component)
	if err != nil {
		return nil, &CompileError{File: file, Stage: stageCSS, Err: err}
	}

	code, m, err := c.config.Emitter.Emit(&Component{
		Tag:      component.Name,
		File:     file,
		Source:   source,
		CSS:      stylesheet,
		Template: tmpl,
		Line:     component.Root.Line - 1,
		Column:   component.Root.Column - 1,
	})
	if err != nil {
		return nil, &CompileError{File: file, Stage: stageEmit, Err: err}
	}

	post, err := c.postprocessors.Execute(postprocess.Output{Code: code, Map: m}, postprocess.Meta{
		File:   file,
		Tag:    component.Name,
		Source: source,
	})
	if err != nil {
		return nil, &CompileError{File: file, Stage: stagePostprocess, Err: err}
	}
	c.config.Metrics.AddPostprocessorRuns(c.postprocessors.Len())

	return &Output{
		Code:     post.Code,
		Map:      post.Map,
		Meta:     meta,
		CSS:      stylesheet,
		Template: tmpl,
	}, nil
}

// CompileTemplate builds the template factory of a component element
func (c *Compiler) CompileTemplate(component *node.Node, file, source string) (*Template, error) {
	alloc := selector.NewAllocatorWithPrefix(c.config.SelectorPrefix)
	opts := []builder.Option{
		builder.WithAllocator(alloc),
		builder.WithDebug(c.config.Debug),
	}
	if c.config.BindingCompiler != nil {
		opts = append(opts, builder.WithCompilerFactory(c.config.BindingCompiler))
	}

	factory, err := builder.Assemble(component, binding.Source{File: file, Code: source}, opts...)
	if err != nil {
		return nil, err
	}

	c.config.Metrics.AddSelectors(alloc.Count())
	c.config.Metrics.RecordBindings(countBindings(factory.Bindings, nil))
	return factory, nil
}

// preprocessTemplate runs a template preprocessor named by a
// `<!-- type: name -->` first line. Most components have none.
func (c *Compiler) preprocessTemplate(source, file string) (string, error) {
	name := templateType(source)
	if name == "" {
		return source, nil
	}
	result, err := c.preprocessors.Execute(preprocess.TemplateKind, name, source, preprocess.Meta{File: file})
	if err != nil {
		return "", err
	}
	c.config.Metrics.IncrementPreprocessorRun()
	return result.Code, nil
}

func templateType(source string) string {
	line := strings.TrimSpace(strings.SplitN(source, "\n", 2)[0])
	if !strings.HasPrefix(line, "<!--") || !strings.HasSuffix(line, "-->") {
		return ""
	}
	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "<!--"), "-->"))
	name, ok := strings.CutPrefix(body, "type:")
	if !ok {
		return ""
	}
	return strings.TrimSpace(name)
}

// generateCSS preprocesses, scopes, trims and optionally minifies the
// component stylesheet
func (c *Compiler) generateCSS(component *parser.Component) (string, error) {
	style := component.Style
	if style == nil {
		return "", nil
	}

	name := style.Type
	if name == "css" {
		name = ""
	}
	result, err := c.preprocessors.Execute(preprocess.CSSKind, name, style.Text, preprocess.Meta{
		File: component.File,
		Tag:  component.Name,
	})
	if err != nil {
		var notRegistered preprocess.ErrNotRegistered
		if errors.As(err, &notRegistered) && c.config.Debug {
			log.Printf("COMPILER: no %q css preprocessor for %s", name, component.File)
		}
		return "", err
	}
	if name != "" {
		c.config.Metrics.IncrementPreprocessorRun()
	}

	stylesheet := result.Code
	if c.config.ScopedCSS {
		stylesheet = css.Scope(stylesheet, component.Name)
		c.config.Metrics.IncrementStyleScoped()
	}
	stylesheet = strings.TrimSpace(stylesheet)

	if c.config.Minify {
		stylesheet = minifyCSS(stylesheet)
		c.config.Metrics.IncrementStyleMinified()
	}
	return stylesheet, nil
}

// countBindings tallies bindings by type name, including nested templates
func countBindings(bindings []binding.Binding, counts map[string]int) map[string]int {
	if counts == nil {
		counts = make(map[string]int)
	}
	for _, b := range bindings {
		counts[b.BindingType().String()]++
		switch v := b.(type) {
		case *binding.EachBinding:
			countBindings(v.Template.Bindings, counts)
		case *binding.IfBinding:
			countBindings(v.Template.Bindings, counts)
		case *binding.TagBinding:
			countBindings(v.Slot.Bindings, counts)
		}
	}
	return counts
}

package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector provides simple built-in compile metrics with no external dependencies
type Collector struct {
	compileMetrics    *CompileMetrics
	operationCounters map[string]*int64
	mu                sync.RWMutex
	startTime         time.Time
}

// CompileMetrics tracks compiler activity
type CompileMetrics struct {
	// Components
	ComponentsCompiled int64 `json:"components_compiled"`
	CompileErrors      int64 `json:"compile_errors"`
	TotalCompileTime   int64 `json:"total_compile_time_ns"`
	MaxCompileTime     int64 `json:"max_compile_time_ns"`

	// Bindings by type
	EachBindings   int64 `json:"each_bindings"`
	IfBindings     int64 `json:"if_bindings"`
	TagBindings    int64 `json:"tag_bindings"`
	SimpleBindings int64 `json:"simple_bindings"`

	// Selectors allocated across all compiles
	SelectorsAllocated int64 `json:"selectors_allocated"`

	// Styles
	StylesScoped   int64 `json:"styles_scoped"`
	StylesMinified int64 `json:"styles_minified"`

	// Processors
	PreprocessorsRun  int64 `json:"preprocessors_run"`
	PostprocessorsRun int64 `json:"postprocessors_run"`

	// Uptime
	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		compileMetrics: &CompileMetrics{
			StartTime: time.Now(),
		},
		operationCounters: make(map[string]*int64),
		startTime:         time.Now(),
	}
}

// RecordCompile records a successful compile and its duration
func (c *Collector) RecordCompile(duration time.Duration) {
	atomic.AddInt64(&c.compileMetrics.ComponentsCompiled, 1)
	atomic.AddInt64(&c.compileMetrics.TotalCompileTime, int64(duration))

	for {
		max := atomic.LoadInt64(&c.compileMetrics.MaxCompileTime)
		if int64(duration) <= max {
			break
		}
		if atomic.CompareAndSwapInt64(&c.compileMetrics.MaxCompileTime, max, int64(duration)) {
			break
		}
	}
}

// IncrementCompileError records a failed compile
func (c *Collector) IncrementCompileError() {
	atomic.AddInt64(&c.compileMetrics.CompileErrors, 1)
}

// RecordBindings adds the binding counts of one compile, keyed by binding type name
func (c *Collector) RecordBindings(counts map[string]int) {
	for kind, n := range counts {
		switch kind {
		case "each":
			atomic.AddInt64(&c.compileMetrics.EachBindings, int64(n))
		case "if":
			atomic.AddInt64(&c.compileMetrics.IfBindings, int64(n))
		case "tag":
			atomic.AddInt64(&c.compileMetrics.TagBindings, int64(n))
		case "simple":
			atomic.AddInt64(&c.compileMetrics.SimpleBindings, int64(n))
		}
	}
}

// AddSelectors records selectors allocated by a compile
func (c *Collector) AddSelectors(n int) {
	atomic.AddInt64(&c.compileMetrics.SelectorsAllocated, int64(n))
}

// IncrementStyleScoped records a scoped stylesheet
func (c *Collector) IncrementStyleScoped() {
	atomic.AddInt64(&c.compileMetrics.StylesScoped, 1)
}

// IncrementStyleMinified records a minified stylesheet
func (c *Collector) IncrementStyleMinified() {
	atomic.AddInt64(&c.compileMetrics.StylesMinified, 1)
}

// IncrementPreprocessorRun records a preprocessor execution
func (c *Collector) IncrementPreprocessorRun() {
	atomic.AddInt64(&c.compileMetrics.PreprocessorsRun, 1)
}

// AddPostprocessorRuns records postprocessor executions
func (c *Collector) AddPostprocessorRuns(n int) {
	atomic.AddInt64(&c.compileMetrics.PostprocessorsRun, int64(n))
}

// IncrementCustomCounter increments a custom named counter
func (c *Collector) IncrementCustomCounter(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, exists := c.operationCounters[name]; exists {
		atomic.AddInt64(counter, 1)
	} else {
		var newCounter int64 = 1
		c.operationCounters[name] = &newCounter
	}
}

// GetMetrics returns a snapshot of the current compile metrics
func (c *Collector) GetMetrics() CompileMetrics {
	c.mu.RLock()
	start := c.startTime
	c.mu.RUnlock()

	return CompileMetrics{
		ComponentsCompiled: atomic.LoadInt64(&c.compileMetrics.ComponentsCompiled),
		CompileErrors:      atomic.LoadInt64(&c.compileMetrics.CompileErrors),
		TotalCompileTime:   atomic.LoadInt64(&c.compileMetrics.TotalCompileTime),
		MaxCompileTime:     atomic.LoadInt64(&c.compileMetrics.MaxCompileTime),
		EachBindings:       atomic.LoadInt64(&c.compileMetrics.EachBindings),
		IfBindings:         atomic.LoadInt64(&c.compileMetrics.IfBindings),
		TagBindings:        atomic.LoadInt64(&c.compileMetrics.TagBindings),
		SimpleBindings:     atomic.LoadInt64(&c.compileMetrics.SimpleBindings),
		SelectorsAllocated: atomic.LoadInt64(&c.compileMetrics.SelectorsAllocated),
		StylesScoped:       atomic.LoadInt64(&c.compileMetrics.StylesScoped),
		StylesMinified:     atomic.LoadInt64(&c.compileMetrics.StylesMinified),
		PreprocessorsRun:   atomic.LoadInt64(&c.compileMetrics.PreprocessorsRun),
		PostprocessorsRun:  atomic.LoadInt64(&c.compileMetrics.PostprocessorsRun),
		StartTime:          start,
		Uptime:             time.Since(start),
	}
}

// GetCustomCounters returns all custom counters
func (c *Collector) GetCustomCounters() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]int64)
	for name, counter := range c.operationCounters {
		result[name] = atomic.LoadInt64(counter)
	}
	return result
}

// Reset resets all metrics to zero
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, counter := range []*int64{
		&c.compileMetrics.ComponentsCompiled,
		&c.compileMetrics.CompileErrors,
		&c.compileMetrics.TotalCompileTime,
		&c.compileMetrics.MaxCompileTime,
		&c.compileMetrics.EachBindings,
		&c.compileMetrics.IfBindings,
		&c.compileMetrics.TagBindings,
		&c.compileMetrics.SimpleBindings,
		&c.compileMetrics.SelectorsAllocated,
		&c.compileMetrics.StylesScoped,
		&c.compileMetrics.StylesMinified,
		&c.compileMetrics.PreprocessorsRun,
		&c.compileMetrics.PostprocessorsRun,
	} {
		atomic.StoreInt64(counter, 0)
	}

	c.operationCounters = make(map[string]*int64)

	c.startTime = time.Now()
	c.compileMetrics.StartTime = c.startTime
}

// GetErrorRate returns the percentage of compiles that failed
func (c *Collector) GetErrorRate() float64 {
	compiled := atomic.LoadInt64(&c.compileMetrics.ComponentsCompiled)
	errors := atomic.LoadInt64(&c.compileMetrics.CompileErrors)

	if compiled+errors == 0 {
		return 0.0
	}

	return float64(errors) / float64(compiled+errors) * 100.0
}

// GetAverageCompileTime returns the mean duration of successful compiles
func (c *Collector) GetAverageCompileTime() time.Duration {
	compiled := atomic.LoadInt64(&c.compileMetrics.ComponentsCompiled)
	if compiled == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&c.compileMetrics.TotalCompileTime) / compiled)
}

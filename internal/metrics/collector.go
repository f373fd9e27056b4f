package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector provides simple built-in metrics collection with no external dependencies
type Collector struct {
	compileMetrics    *CompileMetrics
	failuresByKind    map[string]*int64
	operationCounters map[string]*int64
	mu                sync.RWMutex
	startTime         time.Time
}

// CompileMetrics tracks compiler throughput
type CompileMetrics struct {
	// Compilations
	Compilations   int64 `json:"compilations"`
	Failures       int64 `json:"failures"`
	ActiveCompiles int64 `json:"active_compiles"`
	MaxConcurrent  int64 `json:"max_concurrent"`

	// Volume
	SourceBytes int64 `json:"source_bytes"`
	OutputBytes int64 `json:"output_bytes"`
	Elements    int64 `json:"elements"`

	// Timing
	TotalCompileTime time.Duration `json:"total_compile_time"`

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
		failuresByKind:    make(map[string]*int64),
		operationCounters: make(map[string]*int64),
		startTime:         time.Now(),
	}
}

// BeginCompile records the start of a compilation and returns a function
// that must be called when it finishes.
func (c *Collector) BeginCompile() (done func()) {
	start := time.Now()
	currentActive := atomic.AddInt64(&c.compileMetrics.ActiveCompiles, 1)

	// Update max concurrent if needed
	for {
		max := atomic.LoadInt64(&c.compileMetrics.MaxConcurrent)
		if currentActive <= max {
			break
		}
		if atomic.CompareAndSwapInt64(&c.compileMetrics.MaxConcurrent, max, currentActive) {
			break
		}
	}

	return func() {
		atomic.AddInt64(&c.compileMetrics.ActiveCompiles, -1)
		atomic.AddInt64((*int64)(&c.compileMetrics.TotalCompileTime), int64(time.Since(start)))
	}
}

// RecordSuccess records a successful compilation
func (c *Collector) RecordSuccess(sourceBytes, outputBytes, elements int) {
	atomic.AddInt64(&c.compileMetrics.Compilations, 1)
	atomic.AddInt64(&c.compileMetrics.SourceBytes, int64(sourceBytes))
	atomic.AddInt64(&c.compileMetrics.OutputBytes, int64(outputBytes))
	atomic.AddInt64(&c.compileMetrics.Elements, int64(elements))
}

// RecordFailure records a failed compilation under the given error kind
func (c *Collector) RecordFailure(kind string, sourceBytes int) {
	atomic.AddInt64(&c.compileMetrics.Failures, 1)
	atomic.AddInt64(&c.compileMetrics.SourceBytes, int64(sourceBytes))
	if kind == "" {
		kind = "other"
	}
	c.increment(&c.failuresByKind, kind)
}

// IncrementCustomCounter increments a custom named counter
func (c *Collector) IncrementCustomCounter(name string) {
	c.increment(&c.operationCounters, name)
}

func (c *Collector) increment(counters *map[string]*int64, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, exists := (*counters)[name]; exists {
		atomic.AddInt64(counter, 1)
	} else {
		var newCounter int64 = 1
		(*counters)[name] = &newCounter
	}
}

// GetMetrics returns current compile metrics
func (c *Collector) GetMetrics() CompileMetrics {
	c.mu.RLock()
	startTime := c.startTime
	c.mu.RUnlock()

	// Return a copy with current atomic values
	return CompileMetrics{
		Compilations:     atomic.LoadInt64(&c.compileMetrics.Compilations),
		Failures:         atomic.LoadInt64(&c.compileMetrics.Failures),
		ActiveCompiles:   atomic.LoadInt64(&c.compileMetrics.ActiveCompiles),
		MaxConcurrent:    atomic.LoadInt64(&c.compileMetrics.MaxConcurrent),
		SourceBytes:      atomic.LoadInt64(&c.compileMetrics.SourceBytes),
		OutputBytes:      atomic.LoadInt64(&c.compileMetrics.OutputBytes),
		Elements:         atomic.LoadInt64(&c.compileMetrics.Elements),
		TotalCompileTime: time.Duration(atomic.LoadInt64((*int64)(&c.compileMetrics.TotalCompileTime))),
		StartTime:        startTime,
		Uptime:           time.Since(startTime),
	}
}

// GetFailuresByKind returns failure counts keyed by error kind
func (c *Collector) GetFailuresByKind() map[string]int64 {
	return c.snapshot(&c.failuresByKind)
}

// GetCustomCounters returns all custom counters
func (c *Collector) GetCustomCounters() map[string]int64 {
	return c.snapshot(&c.operationCounters)
}

func (c *Collector) snapshot(counters *map[string]*int64) map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]int64)
	for name, counter := range *counters {
		result[name] = atomic.LoadInt64(counter)
	}
	return result
}

// Reset resets all metrics to zero
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	atomic.StoreInt64(&c.compileMetrics.Compilations, 0)
	atomic.StoreInt64(&c.compileMetrics.Failures, 0)
	atomic.StoreInt64(&c.compileMetrics.MaxConcurrent, 0)
	atomic.StoreInt64(&c.compileMetrics.SourceBytes, 0)
	atomic.StoreInt64(&c.compileMetrics.OutputBytes, 0)
	atomic.StoreInt64(&c.compileMetrics.Elements, 0)
	atomic.StoreInt64((*int64)(&c.compileMetrics.TotalCompileTime), 0)

	c.failuresByKind = make(map[string]*int64)
	c.operationCounters = make(map[string]*int64)

	c.startTime = time.Now()
	c.compileMetrics.StartTime = c.startTime
}

// GetErrorRate returns the percentage of compilations that failed
func (c *Collector) GetErrorRate() float64 {
	succeeded := atomic.LoadInt64(&c.compileMetrics.Compilations)
	failed := atomic.LoadInt64(&c.compileMetrics.Failures)

	total := succeeded + failed
	if total == 0 {
		return 0.0
	}

	return float64(failed) / float64(total) * 100.0
}

// GetAverageCompileTime returns the mean wall time per finished compilation
func (c *Collector) GetAverageCompileTime() time.Duration {
	total := atomic.LoadInt64(&c.compileMetrics.Compilations) + atomic.LoadInt64(&c.compileMetrics.Failures)
	if total == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64((*int64)(&c.compileMetrics.TotalCompileTime)) / total)
}

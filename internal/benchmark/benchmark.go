// Package benchmark measures the overhead the profiler adds to the code it
// instruments.
package benchmark

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
)

// Timer provides simple timing utilities for benchmarking.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer creates a new timer with the given name.
func NewTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// String returns a formatted string representation of the timer.
func (t *Timer) String() string {
	return fmt.Sprintf("%s: %v", t.name, t.duration)
}

// MemoryStats holds memory usage statistics.
type MemoryStats struct {
	AllocBytes      uint64  // Currently allocated bytes
	TotalAllocBytes uint64  // Total allocated bytes (cumulative)
	Mallocs         uint64  // Cumulative count of heap objects allocated
	NumGC           uint32  // Number of GC runs
	GCCPUFraction   float64 // Fraction of CPU time spent in GC
}

// GetMemoryStats returns current memory statistics.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemoryStats{
		AllocBytes:      m.Alloc,
		TotalAllocBytes: m.TotalAlloc,
		Mallocs:         m.Mallocs,
		NumGC:           m.NumGC,
		GCCPUFraction:   m.GCCPUFraction,
	}
}

// String returns a formatted string representation of memory stats.
func (m MemoryStats) String() string {
	return fmt.Sprintf("Alloc: %d KB, Total: %d KB, Mallocs: %d, GC: %d (%.2f%% CPU)",
		m.AllocBytes/1024,
		m.TotalAllocBytes/1024,
		m.Mallocs,
		m.NumGC,
		m.GCCPUFraction*100)
}

// BenchmarkResult holds the result of a benchmark run.
type BenchmarkResult struct {
	Name         string
	Duration     time.Duration
	MemoryBefore MemoryStats
	MemoryAfter  MemoryStats
	Iterations   int
	Error        error
}

// NsPerOp returns the average duration of one iteration in nanoseconds.
func (br BenchmarkResult) NsPerOp() float64 {
	if br.Iterations <= 0 {
		return 0
	}
	return float64(br.Duration.Nanoseconds()) / float64(br.Iterations)
}

// AllocsPerOp returns the average number of heap allocations per iteration.
func (br BenchmarkResult) AllocsPerOp() float64 {
	if br.Iterations <= 0 || br.MemoryAfter.Mallocs < br.MemoryBefore.Mallocs {
		return 0
	}
	return float64(br.MemoryAfter.Mallocs-br.MemoryBefore.Mallocs) / float64(br.Iterations)
}

// String returns a formatted string representation of the benchmark result.
func (br BenchmarkResult) String() string {
	if br.Error != nil {
		return fmt.Sprintf("%s: ERROR - %v", br.Name, br.Error)
	}

	return fmt.Sprintf("%s: %d iterations, %.1f ns/op, %.2f allocs/op, total: %v",
		br.Name, br.Iterations, br.NsPerOp(), br.AllocsPerOp(), br.Duration)
}

// Benchmark represents a benchmark function.
type Benchmark struct {
	Name string
	Func func() error
}

// BenchmarkSuite manages multiple benchmarks.
type BenchmarkSuite struct {
	benchmarks []Benchmark
	results    []BenchmarkResult
	mu         sync.Mutex
}

// NewBenchmarkSuite creates a new benchmark suite.
func NewBenchmarkSuite() *BenchmarkSuite {
	return &BenchmarkSuite{
		benchmarks: make([]Benchmark, 0),
		results:    make([]BenchmarkResult, 0),
	}
}

// Add adds a benchmark to the suite.
func (bs *BenchmarkSuite) Add(name string, fn func() error) {
	bs.benchmarks = append(bs.benchmarks, Benchmark{
		Name: name,
		Func: fn,
	})
}

// Names returns the benchmark names in registration order.
func (bs *BenchmarkSuite) Names() []string {
	names := make([]string, len(bs.benchmarks))
	for i, b := range bs.benchmarks {
		names[i] = b.Name
	}
	return names
}

// Run runs a single benchmark with the specified number of iterations.
func (bs *BenchmarkSuite) Run(name string, iterations int) BenchmarkResult {
	var benchmark Benchmark
	found := false
	for _, b := range bs.benchmarks {
		if b.Name == name {
			benchmark = b
			found = true
			break
		}
	}

	if !found {
		return BenchmarkResult{
			Name:  name,
			Error: fmt.Errorf("benchmark '%s' not found", name),
		}
	}

	return bs.runBenchmark(benchmark, iterations)
}

// RunAll runs all benchmarks in the suite.
func (bs *BenchmarkSuite) RunAll(iterations int) []BenchmarkResult {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	bs.results = make([]BenchmarkResult, 0, len(bs.benchmarks))

	for _, benchmark := range bs.benchmarks {
		result := bs.runBenchmark(benchmark, iterations)
		bs.results = append(bs.results, result)
	}

	return bs.results
}

// runBenchmark executes a single benchmark.
func (bs *BenchmarkSuite) runBenchmark(benchmark Benchmark, iterations int) BenchmarkResult {
	// Force garbage collection before measuring
	runtime.GC()
	memBefore := GetMemoryStats()

	timer := NewTimer(benchmark.Name)
	var err error

	for range iterations {
		if e := benchmark.Func(); e != nil {
			err = e
			break
		}
	}

	duration := timer.Stop()
	memAfter := GetMemoryStats()

	return BenchmarkResult{
		Name:         benchmark.Name,
		Duration:     duration,
		MemoryBefore: memBefore,
		MemoryAfter:  memAfter,
		Iterations:   iterations,
		Error:        err,
	}
}

// Results returns the last run results.
func (bs *BenchmarkSuite) Results() []BenchmarkResult {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.results
}

// WriteResults writes formatted benchmark results to w.
func (bs *BenchmarkSuite) WriteResults(w io.Writer) {
	results := bs.Results()
	_, _ = fmt.Fprintln(w, "\nBenchmark Results:")
	_, _ = fmt.Fprintln(w, strings.Repeat("=", 18))
	for _, result := range results {
		_, _ = fmt.Fprintln(w, result.String())
	}
	_, _ = fmt.Fprintln(w)
}

// Names of the benchmarks registered by NewOverheadSuite.
const (
	BenchLogEnabled  = "Log_enabled"
	BenchLogDisabled = "Log_disabled"
	BenchLogSQL      = "Log_sql"
	BenchNormalize   = "NormalizeSQL"
	BenchReportData  = "ReportData"
	BenchSharedLog   = "Shared_Log"
)

// OverheadConfig controls the workload of the overhead benchmarks.
type OverheadConfig struct {
	// Labels is the number of distinct labels cycled through per category.
	Labels int
	// Categories is the number of categories filled before ReportData runs.
	Categories int
}

// DefaultOverheadConfig returns a small but realistic workload.
func DefaultOverheadConfig() OverheadConfig {
	return OverheadConfig{Labels: 64, Categories: 4}
}

// NewOverheadSuite returns a suite that measures the cost of each profiler
// operation. Every benchmark gets its own Profiler and Switch so the
// process-wide switch is never touched.
func NewOverheadSuite(cfg OverheadConfig) *BenchmarkSuite {
	if cfg.Labels <= 0 {
		cfg.Labels = 1
	}
	if cfg.Categories <= 0 {
		cfg.Categories = 1
	}

	labels := make([]string, cfg.Labels)
	statements := make([]string, cfg.Labels)
	for i := range labels {
		labels[i] = fmt.Sprintf("/var/data/file-%03d.dat", i)
		statements[i] = fmt.Sprintf("UPDATE LOW_PRIORITY table_%d\n  SET col = %d WHERE id = ?", i, i)
	}

	newProfiler := func(enabled bool) *profiler.Profiler {
		sw := &profiler.Switch{}
		if enabled {
			sw.Enable()
		}
		return profiler.New(profiler.WithSwitch(sw))
	}

	suite := NewBenchmarkSuite()

	enabled := newProfiler(true)
	i := 0
	suite.Add(BenchLogEnabled, func() error {
		enabled.Log("file", labels[i%len(labels)], enabled.Now())
		i++
		return nil
	})

	disabled := newProfiler(false)
	suite.Add(BenchLogDisabled, func() error {
		disabled.Log("file", labels[0], disabled.Now())
		return nil
	})

	sqlProfiler := newProfiler(true)
	j := 0
	suite.Add(BenchLogSQL, func() error {
		sqlProfiler.Log(profiler.SQLCategory, statements[j%len(statements)], sqlProfiler.Now())
		j++
		return nil
	})

	k := 0
	suite.Add(BenchNormalize, func() error {
		_ = profiler.NormalizeSQL(statements[k%len(statements)])
		k++
		return nil
	})

	filled := newProfiler(true)
	for c := range cfg.Categories {
		category := fmt.Sprintf("cat%d", c)
		for _, label := range labels {
			filled.Log(category, label, filled.Now())
		}
	}
	suite.Add(BenchReportData, func() error {
		if filled.ReportData().Empty() {
			return errors.New("report unexpectedly empty")
		}
		return nil
	})

	sw := &profiler.Switch{}
	sw.Enable()
	shared := profiler.NewShared(profiler.WithSwitch(sw))
	suite.Add(BenchSharedLog, func() error {
		shared.Log("cache", labels[0], shared.Now())
		return nil
	})

	return suite
}

// Overhead compares two results of the same suite and returns how many times
// slower a is than b per operation. It returns 0 when b has no measurement.
func Overhead(a, b BenchmarkResult) float64 {
	if b.NsPerOp() == 0 {
		return 0
	}
	return a.NsPerOp() / b.NsPerOp()
}

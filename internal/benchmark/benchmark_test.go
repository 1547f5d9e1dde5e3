package benchmark

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmarkSuite(t *testing.T) {
	suite := NewBenchmarkSuite()
	assert.NotNil(t, suite)
	assert.Empty(t, suite.benchmarks)

	// Add a simple benchmark
	suite.Add("test_benchmark", func() error {
		time.Sleep(1 * time.Millisecond)
		return nil
	})

	assert.Len(t, suite.benchmarks, 1)
	assert.Equal(t, "test_benchmark", suite.benchmarks[0].Name)
}

func TestBenchmarkSuiteRun(t *testing.T) {
	suite := NewBenchmarkSuite()

	// Add a successful benchmark
	suite.Add("success_test", func() error {
		time.Sleep(1 * time.Millisecond)
		return nil
	})

	// Add a failing benchmark
	suite.Add("error_test", func() error {
		return errors.New("test error")
	})

	// Run successful benchmark
	result := suite.Run("success_test", 5)
	assert.Equal(t, "success_test", result.Name)
	assert.Equal(t, 5, result.Iterations)
	require.NoError(t, result.Error)
	assert.Positive(t, result.Duration)

	// Run failing benchmark
	result = suite.Run("error_test", 3)
	assert.Equal(t, "error_test", result.Name)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "test error")

	// Run non-existent benchmark
	result = suite.Run("non_existent", 1)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "not found")
}

func TestBenchmarkSuiteRunAll(t *testing.T) {
	suite := NewBenchmarkSuite()

	// Add multiple benchmarks
	suite.Add("fast_test", func() error {
		time.Sleep(1 * time.Millisecond)
		return nil
	})

	suite.Add("slow_test", func() error {
		time.Sleep(5 * time.Millisecond)
		return nil
	})

	// Run all benchmarks
	results := suite.RunAll(3)
	require.Len(t, results, 2)

	// Check that results are stored
	storedResults := suite.Results()
	assert.Equal(t, results, storedResults)

	// Verify results
	fastResult := results[0]
	slowResult := results[1]

	assert.Equal(t, "fast_test", fastResult.Name)
	assert.Equal(t, "slow_test", slowResult.Name)
	assert.Equal(t, 3, fastResult.Iterations)
	assert.Equal(t, 3, slowResult.Iterations)
	assert.NoError(t, fastResult.Error)
	assert.NoError(t, slowResult.Error)

	// Slow test should take longer than fast test
	assert.Greater(t, slowResult.Duration, fastResult.Duration)
}

func TestBenchmarkResult_PerOp(t *testing.T) {
	result := BenchmarkResult{
		Name:         "per_op",
		Duration:     10 * time.Microsecond,
		Iterations:   10,
		MemoryBefore: MemoryStats{Mallocs: 100},
		MemoryAfter:  MemoryStats{Mallocs: 130},
	}

	assert.InDelta(t, 1000.0, result.NsPerOp(), 1e-9)
	assert.InDelta(t, 3.0, result.AllocsPerOp(), 1e-9)
	assert.Contains(t, result.String(), "1000.0 ns/op")

	assert.Zero(t, BenchmarkResult{}.NsPerOp())
	assert.Zero(t, BenchmarkResult{}.AllocsPerOp())
	assert.Contains(t, BenchmarkResult{Name: "x", Error: errors.New("boom")}.String(), "ERROR - boom")
}

func TestOverheadSuite(t *testing.T) {
	suite := NewOverheadSuite(OverheadConfig{Labels: 8, Categories: 2})

	assert.Equal(t, []string{
		BenchLogEnabled, BenchLogDisabled, BenchLogSQL,
		BenchNormalize, BenchReportData, BenchSharedLog,
	}, suite.Names())

	results := suite.RunAll(50)
	require.Len(t, results, 6)
	for _, result := range results {
		require.NoError(t, result.Error, result.Name)
		assert.Equal(t, 50, result.Iterations)
	}

	var buf bytes.Buffer
	suite.WriteResults(&buf)
	assert.Contains(t, buf.String(), "Benchmark Results:")
	assert.Contains(t, buf.String(), BenchLogDisabled)
}

func TestOverheadSuite_ZeroConfig(t *testing.T) {
	suite := NewOverheadSuite(OverheadConfig{})

	result := suite.Run(BenchReportData, 3)
	assert.NoError(t, result.Error)
}

func TestOverhead(t *testing.T) {
	slow := BenchmarkResult{Duration: 300 * time.Nanosecond, Iterations: 1}
	fast := BenchmarkResult{Duration: 100 * time.Nanosecond, Iterations: 1}

	assert.InDelta(t, 3.0, Overhead(slow, fast), 1e-9)
	assert.Zero(t, Overhead(slow, BenchmarkResult{}))
}

func TestTimer(t *testing.T) {
	timer := NewTimer("sleep")
	time.Sleep(time.Millisecond)
	d := timer.Stop()

	assert.GreaterOrEqual(t, d, time.Millisecond)
	assert.Equal(t, d, timer.Duration())
	assert.Contains(t, timer.String(), "sleep: ")
}

func TestGetMemoryStats(t *testing.T) {
	stats := GetMemoryStats()
	assert.Positive(t, stats.TotalAllocBytes)
	assert.Contains(t, stats.String(), "Mallocs:")
}

// Example benchmark test that shows how to use the framework.
func TestExampleBenchmarkUsage(t *testing.T) {
	// Create a benchmark suite
	suite := NewBenchmarkSuite()

	// Add some example operations
	suite.Add("string_concat", func() error {
		var result string
		for range 1000 {
			result += "a"
		}
		return nil
	})

	suite.Add("slice_append", func() error {
		var slice []int
		for i := range 1000 {
			slice = append(slice, i)
		}
		_ = slice // result intentionally unused in benchmark
		return nil
	})

	// Run benchmarks
	results := suite.RunAll(10)
	require.Len(t, results, 2)

	// Print results for demonstration
	t.Log("Example benchmark results:")
	for _, result := range results {
		t.Log(result.String())
	}

	// All should succeed
	for _, result := range results {
		require.NoError(t, result.Error)
		assert.Positive(t, result.Duration)
	}
}

// Package profiler gathers timing information for manually bracketed spans.
//
// A caller captures a start timestamp with Now, performs some work and then
// reports the span with Log, naming a category (sql, cache, file, ...) and a
// label identifying the operation. The Profiler accumulates per-label and
// per-category counts and durations. ReportData returns a snapshot that also
// carries the time not attributed to any category.
//
//	profiler.Enable()
//	p := profiler.New()
//
//	start := profiler.Now()
//	rows, err := db.Query(q)
//	p.Log("sql", q, start)
//
//	rep := p.ReportData()
//
// Spans may nest when lower layers share the same Profiler. Nested spans are
// counted once per level, which can drive the residual time negative. That is
// reported as-is: it shows at which depth time is spent.
//
// A Profiler is not safe for concurrent use. Use Shared, or one Profiler per
// goroutine, when spans are logged from several goroutines.
package profiler

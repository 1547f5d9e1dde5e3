package profiler

import "sync"

// Shared guards a Profiler with a mutex so that several goroutines can log
// spans on the same run.
type Shared struct {
	mu sync.Mutex
	p  *Profiler
}

// NewShared creates a Shared around a new Profiler.
func NewShared(opts ...Option) *Shared {
	return &Shared{p: New(opts...)}
}

// Now reads the underlying Profiler's clock.
func (s *Shared) Now() Timestamp {
	return s.p.Now()
}

// Enabled reports whether the underlying Profiler's switch is on.
func (s *Shared) Enabled() bool {
	return s.p.Enabled()
}

// Log records a span, see Profiler.Log.
func (s *Shared) Log(category, label string, start Timestamp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Log(category, label, start)
}

// Track starts a span and returns a function that logs it.
func (s *Shared) Track(category, label string) func() {
	start := s.p.Now()
	return func() {
		s.Log(category, label, start)
	}
}

// Merge folds r into the run, see Profiler.Merge.
func (s *Shared) Merge(r Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Merge(r)
}

// ReportData returns a snapshot of the run.
func (s *Shared) ReportData() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.ReportData()
}

package profiler

const (
	// ReservedPrefix starts the names the Profiler uses for its own
	// bookkeeping.
	ReservedPrefix = "__"

	// TotalsKey names the pseudo-category holding per-category totals in an
	// encoded Report.
	TotalsKey = ReservedPrefix + "TOTALS"

	// ScriptKey names the residual entry inside TotalsKey.
	ScriptKey = ReservedPrefix + "SCRIPT"

	// SQLCategory is matched case-insensitively; its labels are normalized
	// with NormalizeSQL.
	SQLCategory = "sql"
)

// IsReserved reports whether name collides with a key of the encoded Report.
// Only TotalsKey and ScriptKey are reserved; other names starting with
// ReservedPrefix are ordinary categories.
func IsReserved(name string) bool {
	return name == TotalsKey || name == ScriptKey
}

// Entry is the aggregate for one category/label pair or one category total.
// Time is in milliseconds and may be negative.
type Entry struct {
	Count int64 `json:"count" yaml:"count"`
	Time  int64 `json:"time" yaml:"time"`
}

func (e *Entry) add(count, time int64) {
	e.Count += count
	e.Time += time
}

// Script is the residual entry of a run: the time not attributed to any
// category and the total time elapsed since the Profiler was created.
type Script struct {
	Count     int64 `json:"count" yaml:"count"`
	Time      int64 `json:"time" yaml:"time"`
	TotalTime int64 `json:"total_time" yaml:"total_time"`
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithClock sets the clock used for the run start and span ends.
func WithClock(c Clock) Option {
	return func(p *Profiler) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithSwitch makes the Profiler obey s instead of the process-wide switch.
func WithSwitch(s *Switch) Option {
	return func(p *Profiler) {
		if s != nil {
			p.sw = s
		}
	}
}

// Profiler accumulates span timings for one run.
type Profiler struct {
	clock  Clock
	sw     *Switch
	start  Timestamp
	timers map[string]map[string]*Entry
	totals map[string]*Entry
	script Script
}

// New creates a Profiler and records the run start.
func New(opts ...Option) *Profiler {
	p := &Profiler{
		clock:  SystemClock,
		sw:     defaultSwitch,
		timers: make(map[string]map[string]*Entry),
		totals: make(map[string]*Entry),
		script: Script{Count: 1},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.start = p.clock.Now()
	return p
}

// Start returns the Timestamp recorded when the Profiler was created.
func (p *Profiler) Start() Timestamp {
	return p.start
}

// Now reads the Profiler's clock. Spans logged on p should start from it
// when p was built WithClock.
func (p *Profiler) Now() Timestamp {
	return p.clock.Now()
}

// Enabled reports whether the Profiler's switch is on.
func (p *Profiler) Enabled() bool {
	return p.sw.IsEnabled()
}

// Log records the end of a span that began at start.
//
// Every category/label pair gets its own counter; repeated calls for the same
// pair increment its count and add to its time. Labels in the sql category
// (any case) are normalized with NormalizeSQL first so that statements
// differing only by whitespace or trailing clauses share a counter.
func (p *Profiler) Log(category, label string, start Timestamp) {
	if !p.sw.IsEnabled() {
		return
	}
	duration := p.clock.Now().Sub(start)
	if equalFoldASCII(category, SQLCategory) {
		label = NormalizeSQL(label)
	}
	p.add(category, label, 1, duration)
}

// Track starts a span now and returns a function that logs it.
//
//	defer p.Track("file", path)()
func (p *Profiler) Track(category, label string) func() {
	start := p.clock.Now()
	return func() {
		p.Log(category, label, start)
	}
}

// Merge folds the category entries of r into p. Labels are taken as they are;
// the residual entry of r is ignored.
func (p *Profiler) Merge(r Report) {
	if !p.sw.IsEnabled() {
		return
	}
	for category, labels := range r.Categories {
		for label, e := range labels {
			p.add(category, label, e.Count, e.Time)
		}
	}
}

func (p *Profiler) add(category, label string, count, time int64) {
	if IsReserved(category) {
		return
	}

	labels, ok := p.timers[category]
	if !ok {
		labels = make(map[string]*Entry)
		p.timers[category] = labels
	}
	e, ok := labels[label]
	if !ok {
		e = &Entry{}
		labels[label] = e
	}
	e.add(count, time)

	total, ok := p.totals[category]
	if !ok {
		total = &Entry{}
		p.totals[category] = total
	}
	total.add(count, time)
}

// ReportData returns a snapshot of the run.
//
// The residual script time is recomputed on every call as the time elapsed
// since New minus the time of all categories. It is negative when spans
// overlap. A disabled Profiler returns an empty Report.
func (p *Profiler) ReportData() Report {
	if !p.sw.IsEnabled() {
		return Report{}
	}

	duration := p.clock.Now().Sub(p.start)
	var ioTime int64
	for _, total := range p.totals {
		ioTime += total.Time
	}
	p.script.Time = duration - ioTime
	p.script.TotalTime = duration

	r := Report{
		Categories: make(map[string]map[string]Entry, len(p.timers)),
		Totals:     make(map[string]Entry, len(p.totals)),
		Script:     p.script,
	}
	for category, labels := range p.timers {
		m := make(map[string]Entry, len(labels))
		for label, e := range labels {
			m[label] = *e
		}
		r.Categories[category] = m
	}
	for category, total := range p.totals {
		r.Totals[category] = *total
	}
	return r
}

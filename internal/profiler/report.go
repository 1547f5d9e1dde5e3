package profiler

import (
	"encoding/json"
	"sort"
)

// Report is a snapshot of a Profiler.
//
// The zero Report is what a disabled Profiler returns; callers should read it
// as "profiling was off", not as "nothing happened yet".
type Report struct {
	// Categories maps category -> label -> entry.
	Categories map[string]map[string]Entry
	// Totals maps category -> entry summed over its labels.
	Totals map[string]Entry
	// Script holds the residual time and the total run time.
	Script Script
}

// Empty reports whether r was produced while profiling was disabled.
func (r Report) Empty() bool {
	return r.Categories == nil && r.Totals == nil
}

// IOTime returns the time attributed to categories, in milliseconds.
func (r Report) IOTime() int64 {
	var t int64
	for _, e := range r.Totals {
		t += e.Time
	}
	return t
}

// CategoryNames returns the categories of r in lexical order.
func (r Report) CategoryNames() []string {
	names := make([]string, 0, len(r.Categories))
	for name := range r.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LabelEntry pairs a label with its entry.
type LabelEntry struct {
	Label string
	Entry
}

// Labels returns the entries of category, slowest first. Ties are broken by
// label.
func (r Report) Labels(category string) []LabelEntry {
	labels := r.Categories[category]
	out := make([]LabelEntry, 0, len(labels))
	for label, e := range labels {
		out = append(out, LabelEntry{Label: label, Entry: e})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time > out[j].Time
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Tree returns r in its encoded shape: one key per category mapping labels to
// entries, plus TotalsKey mapping categories and ScriptKey to their totals.
// An empty Report yields an empty map.
func (r Report) Tree() map[string]map[string]any {
	tree := make(map[string]map[string]any, len(r.Categories)+1)
	if r.Empty() {
		return tree
	}
	for category, labels := range r.Categories {
		m := make(map[string]any, len(labels))
		for label, e := range labels {
			m[label] = e
		}
		tree[category] = m
	}
	totals := make(map[string]any, len(r.Totals)+1)
	for category, e := range r.Totals {
		totals[category] = e
	}
	totals[ScriptKey] = r.Script
	tree[TotalsKey] = totals
	return tree
}

// MarshalJSON encodes r as Tree.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Tree())
}

// MarshalYAML encodes r as Tree.
func (r Report) MarshalYAML() (any, error) {
	return r.Tree(), nil
}

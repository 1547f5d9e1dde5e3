package profiler

import "sync/atomic"

// Switch turns profiling on and off. The zero value is disabled.
// Toggling a Switch never resets the state of Profilers that read it.
type Switch struct {
	enabled atomic.Bool
}

// Enable turns profiling on.
func (s *Switch) Enable() {
	s.enabled.Store(true)
}

// Disable turns profiling off. Log becomes a no-op and ReportData returns an
// empty Report until the switch is enabled again.
func (s *Switch) Disable() {
	s.enabled.Store(false)
}

// IsEnabled reports whether profiling is on.
func (s *Switch) IsEnabled() bool {
	return s.enabled.Load()
}

// defaultSwitch is the process-wide switch used by Profilers created without
// WithSwitch.
var defaultSwitch = &Switch{}

// DefaultSwitch returns the process-wide switch.
func DefaultSwitch() *Switch {
	return defaultSwitch
}

// Enable turns on the process-wide switch.
func Enable() {
	defaultSwitch.Enable()
}

// Disable turns off the process-wide switch.
func Disable() {
	defaultSwitch.Disable()
}

// IsEnabled reports the state of the process-wide switch.
func IsEnabled() bool {
	return defaultSwitch.IsEnabled()
}

package profiler

import "time"

// secondsMask keeps the 21 least significant bits of the seconds so that a
// packed Timestamp fits in 32 bits.
const secondsMask = 0x1fffff

// Timestamp is a packed clock reading with millisecond resolution.
//
// It is not milliseconds since the epoch: seconds are truncated to their low
// 21 bits and shifted left by 10 before the milliseconds are added. Two
// readings can only be subtracted when taken inside the same truncation
// window, which holds for any realistic run.
type Timestamp int64

// Sub returns t-start in milliseconds. The result is not clamped.
func (t Timestamp) Sub(start Timestamp) int64 {
	return int64(t - start)
}

// FromTime packs t into a Timestamp.
func FromTime(t time.Time) Timestamp {
	sec := t.Unix() & secondsMask
	usec := int64(t.Nanosecond() / 1000)
	return Timestamp(sec<<10 + usec/1000)
}

// Now returns a fresh Timestamp from the system clock.
func Now() Timestamp {
	return FromTime(time.Now())
}

// Clock is a source of Timestamps.
type Clock interface {
	Now() Timestamp
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() Timestamp

// Now calls f.
func (f ClockFunc) Now() Timestamp {
	return f()
}

// SystemClock reads the system clock through Now.
var SystemClock Clock = ClockFunc(Now)

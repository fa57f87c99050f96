package harness

import "time"

// Ticks is processor time in clock ticks. One tick is one microsecond.
type Ticks int64

// TicksPerSecond matches the POSIX CLOCKS_PER_SEC.
const TicksPerSecond Ticks = 1_000_000

// Duration converts t to a time.Duration.
func (t Ticks) Duration() time.Duration {
	return time.Duration(t) * time.Microsecond
}

// Clock reports consumed processor time.
type Clock interface {
	Now() Ticks
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() Ticks

// Now calls f.
func (f ClockFunc) Now() Ticks { return f() }

var processStart = time.Now()

// wallTicks is the fallback when processor time is unavailable.
func wallTicks() Ticks {
	return Ticks(time.Since(processStart).Microseconds())
}

//go:build !linux

package harness

// ProcessClock falls back to a monotonic wall clock on platforms without a
// per-process CPU clock.
type ProcessClock struct{}

// Now returns microseconds since process start.
func (ProcessClock) Now() Ticks {
	return wallTicks()
}

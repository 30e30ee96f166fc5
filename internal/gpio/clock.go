package gpio

import (
	"time"

	"gob00/internal/pulse"
)

// spinWindow is the tail of every delay that is busy-waited instead of slept,
// covering the scheduler's wake-up latency.
const spinWindow = 200 * time.Microsecond

// SpinClock delays with microsecond precision by sleeping for the bulk of a
// delay and spinning for the rest. It occupies the calling goroutine's thread
// for the whole delay.
type SpinClock struct {
	now   func() time.Time
	sleep func(time.Duration)
}

// NewSpinClock returns a clock based on the system monotonic time.
func NewSpinClock() *SpinClock {
	return &SpinClock{now: time.Now, sleep: time.Sleep}
}

// Delay blocks for d. Delays longer than pulse.MaxDelay are clamped.
func (c *SpinClock) Delay(d time.Duration) {
	if d <= 0 {
		return
	}
	if d > pulse.MaxDelay {
		d = pulse.MaxDelay
	}
	deadline := c.now().Add(d)
	if d > spinWindow {
		c.sleep(d - spinWindow)
	}
	for c.now().Before(deadline) {
	}
}

var _ pulse.Clock = (*SpinClock)(nil)

package pulse

import "time"

// Pulse widths of the B00 on-off keying. Every symbol is one HIGH period
// followed by one LOW period.
const (
	ShortPulse = 300 * time.Microsecond // short half of a bit
	LongPulse  = ShortPulse * 3         // long half of a bit
	SyncPulse  = ShortPulse * 31        // LOW period of a sync marker

	// MaxDelay is the longest single delay the output timer is guaranteed to
	// honour. SyncPulse must stay below it.
	MaxDelay = 16383 * time.Microsecond
)

// Level is the electrical state of an output line.
type Level bool

// Output levels
const (
	Low  Level = false
	High Level = true
)

// String returns "HIGH" or "LOW"
func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

// Line is a single digital output driving the RF transmitter.
type Line interface {
	Set(level Level)
}

// Opener returns the output line for a pin number.
type Opener func(pin int) (Line, error)

// Clock blocks the calling goroutine for a duration with microsecond precision.
type Clock interface {
	Delay(d time.Duration)
}

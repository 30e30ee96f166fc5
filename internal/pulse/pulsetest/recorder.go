// Package pulsetest provides a line and clock that record the waveform
// produced by a pulse.Transmitter instead of driving hardware.
package pulsetest

import (
	"strings"
	"time"

	"gob00/internal/pulse"
)

// Segment is a stretch of time spent at one level.
type Segment struct {
	Level    pulse.Level
	Duration time.Duration
}

// Pair is one HIGH period followed by one LOW period.
type Pair struct {
	High time.Duration
	Low  time.Duration
}

// Recorder implements pulse.Line and pulse.Clock. Delays do not sleep, they
// only extend the current segment.
type Recorder struct {
	Segments []Segment
	Pins     []int // pins opened through Opener, in order
}

// Set starts a new segment unless the line is already at level.
func (r *Recorder) Set(level pulse.Level) {
	if n := len(r.Segments); n > 0 && r.Segments[n-1].Level == level {
		return
	}
	r.Segments = append(r.Segments, Segment{Level: level})
}

// Delay extends the current segment by d.
func (r *Recorder) Delay(d time.Duration) {
	if len(r.Segments) == 0 {
		r.Segments = append(r.Segments, Segment{Level: pulse.Low})
	}
	r.Segments[len(r.Segments)-1].Duration += d
}

// Opener returns a pulse.Opener handing out the recorder for every pin.
func (r *Recorder) Opener() pulse.Opener {
	return func(pin int) (pulse.Line, error) {
		r.Pins = append(r.Pins, pin)
		return r, nil
	}
}

// Reset forgets the recorded waveform
func (r *Recorder) Reset() {
	r.Segments = nil
}

// Pairs folds the recorded segments into HIGH/LOW pairs. Leading LOW time
// before the first HIGH is ignored.
func (r *Recorder) Pairs() []Pair {
	var pairs []Pair
	for i := 0; i < len(r.Segments); i++ {
		seg := r.Segments[i]
		if seg.Level != pulse.High {
			continue
		}
		p := Pair{High: seg.Duration}
		if i+1 < len(r.Segments) {
			p.Low = r.Segments[i+1].Duration
			i++
		}
		pairs = append(pairs, p)
	}
	return pairs
}

// Symbols maps each pair to 'S' for a sync marker, '0' or '1' for data bits
// and '?' for anything else.
func (r *Recorder) Symbols() string {
	var sb strings.Builder
	for _, p := range r.Pairs() {
		switch p {
		case Pair{High: pulse.ShortPulse, Low: pulse.SyncPulse}:
			sb.WriteByte('S')
		case Pair{High: pulse.ShortPulse, Low: pulse.LongPulse}:
			sb.WriteByte('0')
		case Pair{High: pulse.LongPulse, Low: pulse.ShortPulse}:
			sb.WriteByte('1')
		default:
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

var (
	_ pulse.Line  = (*Recorder)(nil)
	_ pulse.Clock = (*Recorder)(nil)
)

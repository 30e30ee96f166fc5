package pulse

import (
	"fmt"
	"time"
)

// Transmitter drives an output line with the B00 pulse timing.
type Transmitter struct {
	open  Opener
	clock Clock
	line  Line
	pin   int
}

// NewTransmitter opens pin through open and returns a Transmitter timing its
// pulses with clock.
func NewTransmitter(open Opener, pin int, clock Clock) (*Transmitter, error) {
	t := &Transmitter{
		open:  open,
		clock: clock,
	}
	if err := t.SetPin(pin); err != nil {
		return nil, err
	}
	return t, nil
}

// SetPin switches the transmitter to another output pin. The previous line is
// left LOW.
func (t *Transmitter) SetPin(pin int) error {
	line, err := t.open(pin)
	if err != nil {
		return fmt.Errorf("failed to open output pin %d: %w", pin, err)
	}
	if t.line != nil {
		t.line.Set(Low)
	}
	line.Set(Low)
	t.line = line
	t.pin = pin
	return nil
}

// Pin returns the pin currently driven
func (t *Transmitter) Pin() int {
	return t.pin
}

// Sync emits HIGH for ShortPulse then LOW for SyncPulse.
func (t *Transmitter) Sync() {
	t.pulse(ShortPulse, SyncPulse)
}

// Bit emits a zero as HIGH ShortPulse, LOW LongPulse and a one as HIGH
// LongPulse, LOW ShortPulse.
func (t *Transmitter) Bit(one bool) {
	if one {
		t.pulse(LongPulse, ShortPulse)
		return
	}
	t.pulse(ShortPulse, LongPulse)
}

// End is a no-op for pulse output; the line is already LOW.
func (t *Transmitter) End() error {
	return nil
}

// Diagnostic returns false
func (t *Transmitter) Diagnostic() bool {
	return false
}

func (t *Transmitter) pulse(high, low time.Duration) {
	t.line.Set(High)
	t.clock.Delay(high)
	t.line.Set(Low)
	t.clock.Delay(low)
}

var _ Emitter = (*Transmitter)(nil)

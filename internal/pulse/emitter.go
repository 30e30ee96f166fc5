// Package pulse turns sync markers and bits into timed HIGH/LOW transitions on
// a digital output line, or into text when running in diagnostic mode.
package pulse

// Emitter realises the three B00 symbols on some output.
//
// An Emitter is not safe for concurrent use: one goroutine drives it for the
// whole duration of a send call.
type Emitter interface {
	// Sync emits a synchronisation marker.
	Sync()
	// Bit emits a single data bit.
	Bit(one bool)
	// End marks the end of one send call and reports any output error
	// collected while emitting.
	End() error
	// SetPin retargets the emitter to another output pin.
	SetPin(pin int) error
	// Diagnostic reports whether the emitter renders text instead of pulses.
	Diagnostic() bool
}

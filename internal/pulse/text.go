package pulse

import (
	"fmt"
	"io"
)

// Text is the diagnostic emitter. It writes each bit as '0' or '1' to a text
// sink and ends every send call with a newline. Sync markers produce no output.
type Text struct {
	w   io.Writer
	pin int
	err error // first write error since the last End
}

// NewText returns a diagnostic emitter writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Sync does nothing in diagnostic mode
func (t *Text) Sync() {}

// Bit writes '0' or '1'
func (t *Text) Bit(one bool) {
	c := byte('0')
	if one {
		c = '1'
	}
	t.write([]byte{c})
}

// End terminates the line and returns the first error seen since the
// previous End.
func (t *Text) End() error {
	t.write([]byte{'\n'})
	err := t.err
	t.err = nil
	if err != nil {
		return fmt.Errorf("failed to write diagnostic output: %w", err)
	}
	return nil
}

// SetPin records the pin; nothing is driven in diagnostic mode.
func (t *Text) SetPin(pin int) error {
	t.pin = pin
	return nil
}

// Diagnostic returns true
func (t *Text) Diagnostic() bool {
	return true
}

func (t *Text) write(p []byte) {
	if t.err != nil {
		return
	}
	_, t.err = t.w.Write(p)
}

var _ Emitter = (*Text)(nil)

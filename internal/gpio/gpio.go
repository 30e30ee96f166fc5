// Package gpio drives Raspberry Pi (BCM283x/BCM2711) GPIO pins through the
// register block exposed by /dev/gpiomem.
package gpio

import (
	"errors"
	"fmt"
	"sync/atomic"

	"gob00/internal/pulse"
)

// DefaultDevice is the GPIO register window available to the gpio group.
const DefaultDevice = "/dev/gpiomem"

// Register word offsets inside the GPIO block
const (
	regGPFSEL0 = 0x00 / 4 // function select, 10 pins per word
	regGPSET0  = 0x1C / 4 // output set, pins 0-31
	regGPCLR0  = 0x28 / 4 // output clear, pins 0-31

	// BlockSize is the length in bytes of the mapped window
	BlockSize = 4096

	// NumPins is the number of GPIO lines addressed by the block
	NumPins = 54

	fselOutput = 0x1
	fselMask   = 0x7
)

var (
	errClosed     = errors.New("gpio: closed")
	errInvalidPin = errors.New("gpio: invalid pin")
)

// Chip is a mapped GPIO register block.
type Chip struct {
	regs  []uint32
	unmap func() error
}

// newChip wraps an already mapped register window.
func newChip(regs []uint32, unmap func() error) *Chip {
	return &Chip{regs: regs, unmap: unmap}
}

// Output configures pin as an output and returns it driven LOW.
func (c *Chip) Output(pin int) (*Pin, error) {
	if c.regs == nil {
		return nil, errClosed
	}
	if pin < 0 || pin >= NumPins {
		return nil, fmt.Errorf("%w: %d", errInvalidPin, pin)
	}

	reg := regGPFSEL0 + pin/10
	shift := uint(pin%10) * 3
	v := atomic.LoadUint32(&c.regs[reg])
	v = v&^(fselMask<<shift) | fselOutput<<shift
	atomic.StoreUint32(&c.regs[reg], v)

	p := &Pin{
		chip: c,
		num:  pin,
		bank: pin / 32,
		mask: 1 << uint(pin%32),
	}
	p.Set(pulse.Low)
	return p, nil
}

// Opener adapts Output to the pulse.Opener signature.
func (c *Chip) Opener() pulse.Opener {
	return func(pin int) (pulse.Line, error) {
		return c.Output(pin)
	}
}

// Close unmaps the register block.
func (c *Chip) Close() error {
	if c.regs == nil {
		return nil
	}
	c.regs = nil
	if c.unmap == nil {
		return nil
	}
	return c.unmap()
}

// Pin is one GPIO output line.
type Pin struct {
	chip *Chip
	num  int
	bank int
	mask uint32
}

// Number returns the BCM pin number
func (p *Pin) Number() int {
	return p.num
}

// Set drives the pin HIGH or LOW through the set/clear registers.
func (p *Pin) Set(level pulse.Level) {
	reg := regGPCLR0
	if level == pulse.High {
		reg = regGPSET0
	}
	atomic.StoreUint32(&p.chip.regs[reg+p.bank], p.mask)
}

var _ pulse.Line = (*Pin)(nil)

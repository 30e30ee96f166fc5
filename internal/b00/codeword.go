package b00

import (
	"fmt"
	"math/bits"
	"strings"

	"gob00/internal/pulse"
)

// Codeword is one addressed message: a payload for a house and channel.
// Transmitting it produces the 50-bit frame
//
//	1011 | type:8 | house:2 | channel:3 | payload:32 | parity:1
//
// House and channel are truncated to their field widths, never rejected.
type Codeword struct {
	Payload Payload
	House   byte
	Channel byte
}

// Bits renders the 50 frame bits as a string of '0' and '1', produced by the
// same emission path the transmitter uses.
func (c Codeword) Bits() string {
	var sb strings.Builder
	sb.Grow(CodewordBits)
	emitCodeword(pulse.NewText(&sb), c)
	return sb.String()
}

// Parity returns the even parity bit of the first 49 frame bits.
func (c Codeword) Parity() bool {
	n := bits.OnesCount8(Announce) +
		bits.OnesCount8(uint8(c.Payload.Type)) +
		bits.OnesCount8(c.House&(1<<HouseBits-1)) +
		bits.OnesCount8(c.Channel&(1<<ChannelBits-1)) +
		bits.OnesCount32(c.Payload.Value)
	return n%2 == 1
}

// String formats the codeword for logs
func (c Codeword) String() string {
	return fmt.Sprintf("%s house=%d channel=%d", c.Payload, c.House&(1<<HouseBits-1), c.Channel&(1<<ChannelBits-1))
}

// frame emits the bits of one repetition and accumulates their parity as it
// goes. Every '1' passed to bit flips the parity; there is no separate
// parity pass.
type frame struct {
	em     pulse.Emitter
	parity bool
}

func (f *frame) bit(one bool) {
	if one {
		f.parity = !f.parity
	}
	f.em.Bit(one)
}

// bits emits the low width bits of data, most significant first.
// width must not exceed 32.
func (f *frame) bits(data uint32, width uint) {
	for mask := uint32(1) << (width - 1); mask != 0; mask >>= 1 {
		f.bit(data&mask != 0)
	}
}

// emitCodeword emits one 50-bit repetition without sync markers.
func emitCodeword(em pulse.Emitter, c Codeword) {
	f := frame{em: em}
	f.bits(Announce, AnnounceBits)
	f.bits(uint32(c.Payload.Type), TypeBits)
	f.bits(uint32(c.House), HouseBits)
	f.bits(uint32(c.Channel), ChannelBits)
	f.bits(c.Payload.Value, PayloadBits)
	// the parity bit closes the frame and is not itself accumulated
	em.Bit(f.parity)
}

package b00

import (
	"fmt"
	"math"
)

// Payload is a content type together with its packed 32-bit content.
type Payload struct {
	Type  ContentType
	Value uint32
}

// String formats the payload as "B05:0x01020304"
func (p Payload) String() string {
	return fmt.Sprintf("%s:0x%08X", p.Type, p.Value)
}

// PackFloatingPoint reinterprets the IEEE-754 bits of v. No rounding or
// numeric conversion takes place.
func PackFloatingPoint(v float32) Payload {
	return Payload{Type: FloatingPoint, Value: math.Float32bits(v)}
}

// PackSignedLong keeps the two's complement bit pattern of v
func PackSignedLong(v int32) Payload {
	return Payload{Type: SignedLong, Value: uint32(v)}
}

// PackUnsignedLong carries v unchanged
func PackUnsignedLong(v uint32) Payload {
	return Payload{Type: UnsignedLong, Value: v}
}

// PackSignedIntPair places the low 16 bits of a above the low 16 bits of b.
// It is a bit placement, not an arithmetic combination.
func PackSignedIntPair(a, b int16) Payload {
	return Payload{Type: SignedIntPair, Value: uint32(uint16(a))<<16 | uint32(uint16(b))}
}

// PackUnsignedIntPair places a above b
func PackUnsignedIntPair(a, b uint16) Payload {
	return Payload{Type: UnsignedIntPair, Value: uint32(a)<<16 | uint32(b)}
}

// PackByteQuad packs four bytes most significant first
func PackByteQuad(a, b, c, d byte) Payload {
	return Payload{Type: ByteQuad, Value: uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d)}
}

// FloatingPoint reinterprets the payload bits as a float32.
func (p Payload) FloatingPoint() float32 {
	return math.Float32frombits(p.Value)
}

// SignedLong returns the payload as int32
func (p Payload) SignedLong() int32 {
	return int32(p.Value)
}

// UnsignedLong returns the raw payload
func (p Payload) UnsignedLong() uint32 {
	return p.Value
}

// SignedIntPair splits the payload into its high and low int16 halves.
func (p Payload) SignedIntPair() (a, b int16) {
	return int16(p.Value >> 16), int16(p.Value)
}

// UnsignedIntPair splits the payload into its high and low uint16 halves.
func (p Payload) UnsignedIntPair() (a, b uint16) {
	return uint16(p.Value >> 16), uint16(p.Value)
}

// ByteQuad splits the payload into four bytes, most significant first.
func (p Payload) ByteQuad() (a, b, c, d byte) {
	return byte(p.Value >> 24), byte(p.Value >> 16), byte(p.Value >> 8), byte(p.Value)
}

// Values renders the unpacked content as text according to the content type.
func (p Payload) Values() []string {
	switch p.Type {
	case FloatingPoint:
		return []string{fmt.Sprintf("%g", p.FloatingPoint())}
	case SignedLong:
		return []string{fmt.Sprintf("%d", p.SignedLong())}
	case UnsignedLong:
		return []string{fmt.Sprintf("%d", p.UnsignedLong())}
	case SignedIntPair:
		a, b := p.SignedIntPair()
		return []string{fmt.Sprintf("%d", a), fmt.Sprintf("%d", b)}
	case UnsignedIntPair:
		a, b := p.UnsignedIntPair()
		return []string{fmt.Sprintf("%d", a), fmt.Sprintf("%d", b)}
	case ByteQuad:
		a, b, c, d := p.ByteQuad()
		return []string{fmt.Sprintf("%d", a), fmt.Sprintf("%d", b), fmt.Sprintf("%d", c), fmt.Sprintf("%d", d)}
	default:
		return []string{fmt.Sprintf("0x%08X", p.Value)}
	}
}

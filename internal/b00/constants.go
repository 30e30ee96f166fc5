package b00

import "fmt"

// Codeword field layout, most significant field first. The protocol announces
// itself with 0xB followed by the content type, so a codeword of content
// type 0 starts with "B00".
const (
	Announce = 0xB

	AnnounceBits = 4
	TypeBits     = 8
	HouseBits    = 2
	ChannelBits  = 3
	PayloadBits  = 32
	ParityBits   = 1

	// CodewordBits is the length of one repetition without sync markers
	CodewordBits = AnnounceBits + TypeBits + HouseBits + ChannelBits + PayloadBits + ParityBits
)

// Transmitter defaults
const (
	DefaultPin     = 9
	DefaultHouse   = 0
	DefaultChannel = 0
	DefaultRepeats = 4
)

// ContentType selects how the 32-bit payload is packed.
type ContentType uint8

// Defined content types
const (
	FloatingPoint   ContentType = 0 // B00: IEEE-754 binary32
	SignedLong      ContentType = 1 // B01: int32
	UnsignedLong    ContentType = 2 // B02: uint32
	SignedIntPair   ContentType = 3 // B03: two int16
	UnsignedIntPair ContentType = 4 // B04: two uint16
	ByteQuad        ContentType = 5 // B05: four bytes
)

var contentKeywords = [...]string{
	FloatingPoint:   "float",
	SignedLong:      "long",
	UnsignedLong:    "ulong",
	SignedIntPair:   "intpair",
	UnsignedIntPair: "uintpair",
	ByteQuad:        "bytes",
}

var contentArity = [...]int{
	FloatingPoint:   1,
	SignedLong:      1,
	UnsignedLong:    1,
	SignedIntPair:   2,
	UnsignedIntPair: 2,
	ByteQuad:        4,
}

// String returns the protocol label, B00 through B05.
func (ct ContentType) String() string {
	return fmt.Sprintf("B%02X", uint8(ct))
}

// Keyword returns the command keyword for the content type, or "" if the
// type is not defined.
func (ct ContentType) Keyword() string {
	if !ct.Defined() {
		return ""
	}
	return contentKeywords[ct]
}

// Defined reports whether ct is one of the six defined content types.
func (ct ContentType) Defined() bool {
	return int(ct) < len(contentKeywords)
}

// Arity returns how many values the content type carries
func (ct ContentType) Arity() int {
	if !ct.Defined() {
		return 0
	}
	return contentArity[ct]
}

// ContentTypes lists the defined content types in tag order
func ContentTypes() []ContentType {
	return []ContentType{FloatingPoint, SignedLong, UnsignedLong, SignedIntPair, UnsignedIntPair, ByteQuad}
}

// LookupContentType returns the content type for a command keyword.
func LookupContentType(keyword string) (ContentType, bool) {
	for i, kw := range contentKeywords {
		if kw == keyword {
			return ContentType(i), true
		}
	}
	return 0, false
}

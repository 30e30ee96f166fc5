package b00

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrUnknownContentType is returned for a keyword that names no content type.
var ErrUnknownContentType = errors.New("unknown content type")

// ParseCommand packs the textual values args as the content type named by
// keyword ("float", "long", "ulong", "intpair", "uintpair" or "bytes").
//
// Integers accept Go literal syntax (decimal, 0x hex, 0o/0 octal, 0b binary)
// and are truncated to the field width after parsing, the same way the Send
// methods truncate their arguments.
func ParseCommand(keyword string, args []string) (Payload, error) {
	ct, ok := LookupContentType(keyword)
	if !ok {
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownContentType, keyword)
	}
	if len(args) != ct.Arity() {
		return Payload{}, fmt.Errorf("%s takes %d value(s), got %d", keyword, ct.Arity(), len(args))
	}

	if ct == FloatingPoint {
		// overflow saturates to ±Inf like a float32 conversion would
		v, err := strconv.ParseFloat(args[0], 32)
		if err != nil && !(errors.Is(err, strconv.ErrRange) && math.IsInf(v, 0)) {
			return Payload{}, fmt.Errorf("invalid float value %q: %w", args[0], err)
		}
		return PackFloatingPoint(float32(v)), nil
	}

	vals := make([]uint64, len(args))
	for i, arg := range args {
		v, err := parseInteger(arg)
		if err != nil {
			return Payload{}, err
		}
		vals[i] = v
	}

	switch ct {
	case SignedLong:
		return PackSignedLong(int32(vals[0])), nil
	case UnsignedLong:
		return PackUnsignedLong(uint32(vals[0])), nil
	case SignedIntPair:
		return PackSignedIntPair(int16(vals[0]), int16(vals[1])), nil
	case UnsignedIntPair:
		return PackUnsignedIntPair(uint16(vals[0]), uint16(vals[1])), nil
	default:
		return PackByteQuad(byte(vals[0]), byte(vals[1]), byte(vals[2]), byte(vals[3])), nil
	}
}

// parseInteger returns the 64-bit two's complement pattern of s, which may be
// signed or unsigned.
func parseInteger(s string) (uint64, error) {
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return uint64(v), nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value %q: %w", s, err)
	}
	return v, nil
}

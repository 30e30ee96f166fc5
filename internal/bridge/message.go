package bridge

import (
	"fmt"
	"strconv"
	"strings"

	"gob00/internal/b00"
)

// Request is a transmission asked for by an MQTT message.
type Request struct {
	House   byte
	Channel byte
	Payload b00.Payload
}

// ParseMessage builds a Request from a topic of the form
// "<house>/<channel>/<type>" (relative to the bridge prefix) and a payload
// holding the whitespace separated values, e.g. topic "2/5/bytes" with
// payload "1 2 3 4". House and channel must fit in a byte; the sender
// truncates them to their field widths.
func ParseMessage(topic string, payload []byte) (Request, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 {
		return Request{}, fmt.Errorf("invalid topic %q: want <house>/<channel>/<type>", topic)
	}

	house, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return Request{}, fmt.Errorf("invalid house code %q: %w", parts[0], err)
	}
	channel, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return Request{}, fmt.Errorf("invalid channel code %q: %w", parts[1], err)
	}

	p, err := b00.ParseCommand(parts[2], strings.Fields(string(payload)))
	if err != nil {
		return Request{}, err
	}

	return Request{
		House:   byte(house),
		Channel: byte(channel),
		Payload: p,
	}, nil
}

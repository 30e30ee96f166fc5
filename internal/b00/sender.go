// Package b00 encodes values into B00 codewords and sends them through a
// pulse.Emitter.
//
// A codeword is 50 bits long: a 4-bit announce marker, an 8-bit content type,
// a 2-bit house code, a 3-bit channel code, 32 bits of content and an even
// parity bit. Each send starts with a sync marker and repeats the codeword,
// followed by a sync marker, the configured number of times.
package b00

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"gob00/internal/pulse"
)

// Config holds the transmitter settings applied when a Sender is created.
type Config struct {
	Pin     int
	House   byte
	Channel byte
	Repeats uint8
}

// DefaultConfig returns pin 9, house 0, channel 0 and 4 repeats.
func DefaultConfig() Config {
	return Config{
		Pin:     DefaultPin,
		House:   DefaultHouse,
		Channel: DefaultChannel,
		Repeats: DefaultRepeats,
	}
}

// Sender encodes values and transmits them as B00 codewords.
//
// A Sender owns its output line. It is not safe for concurrent use and two
// Senders must not drive the same pin: interleaved sends corrupt the waveform.
// Every Send call blocks until the last sync marker has been emitted.
type Sender struct {
	emitter pulse.Emitter
	logger  *logrus.Logger
	pin     int
	house   byte
	channel byte
	repeats uint8
}

// NewSender creates a Sender on emitter configured with config.
func NewSender(emitter pulse.Emitter, config Config, logger *logrus.Logger) (*Sender, error) {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Sender{
		emitter: emitter,
		logger:  logger,
	}
	if err := s.Setup(config); err != nil {
		return nil, err
	}
	return s, nil
}

// Setup changes all settings at once.
func (s *Sender) Setup(config Config) error {
	s.SetRepeats(config.Repeats)
	if err := s.SetLine(config.Pin); err != nil {
		return err
	}
	s.SetHouseAndChannel(config.House, config.Channel)
	return nil
}

// SetLine moves the output to another pin.
func (s *Sender) SetLine(pin int) error {
	if err := s.emitter.SetPin(pin); err != nil {
		return fmt.Errorf("failed to set output line: %w", err)
	}
	s.pin = pin
	return nil
}

// SetHouseAndChannel sets the address of subsequent codewords. Valid house
// codes are 0-3 and channels 0-7; larger values are truncated on the air.
func (s *Sender) SetHouseAndChannel(house, channel byte) {
	s.house = house
	s.channel = channel
}

// SetRepeats sets how many times each codeword is repeated. Diagnostic
// emitters always get a single repetition.
func (s *Sender) SetRepeats(repeats uint8) {
	if s.emitter.Diagnostic() {
		repeats = 1
	}
	s.repeats = repeats
}

// Config returns the current settings
func (s *Sender) Config() Config {
	return Config{
		Pin:     s.pin,
		House:   s.house,
		Channel: s.channel,
		Repeats: s.repeats,
	}
}

// SendFloatingPoint sends v as content type B00.
func (s *Sender) SendFloatingPoint(v float32) error {
	return s.Send(PackFloatingPoint(v))
}

// SendSignedLong sends v as content type B01.
func (s *Sender) SendSignedLong(v int32) error {
	return s.Send(PackSignedLong(v))
}

// SendUnsignedLong sends v as content type B02.
func (s *Sender) SendUnsignedLong(v uint32) error {
	return s.Send(PackUnsignedLong(v))
}

// SendSignedIntPair sends a and b as content type B03.
func (s *Sender) SendSignedIntPair(a, b int16) error {
	return s.Send(PackSignedIntPair(a, b))
}

// SendUnsignedIntPair sends a and b as content type B04.
func (s *Sender) SendUnsignedIntPair(a, b uint16) error {
	return s.Send(PackUnsignedIntPair(a, b))
}

// SendByteQuad sends four bytes as content type B05.
func (s *Sender) SendByteQuad(a, b, c, d byte) error {
	return s.Send(PackByteQuad(a, b, c, d))
}

// Send transmits an already packed payload to the configured house and
// channel. The only error it returns comes from the emitter's output.
func (s *Sender) Send(p Payload) error {
	return s.sendCodeword(Codeword{Payload: p, House: s.house, Channel: s.channel})
}

// Codeword returns the codeword Send would transmit for p
func (s *Sender) Codeword(p Payload) Codeword {
	return Codeword{Payload: p, House: s.house, Channel: s.channel}
}

func (s *Sender) sendCodeword(c Codeword) error {
	if s.logger.IsLevelEnabled(logrus.DebugLevel) {
		s.logger.WithFields(logrus.Fields{
			"content_type": c.Payload.Type.String(),
			"payload":      fmt.Sprintf("0x%08X", c.Payload.Value),
			"house":        c.House,
			"channel":      c.Channel,
			"repeats":      s.repeats,
			"pin":          s.pin,
		}).Debug("Sending codeword")
	}

	s.emitter.Sync()
	for i := uint8(0); i < s.repeats; i++ {
		emitCodeword(s.emitter, c)
		s.emitter.Sync()
	}

	if err := s.emitter.End(); err != nil {
		return fmt.Errorf("failed to send %s: %w", c.Payload.Type, err)
	}
	return nil
}

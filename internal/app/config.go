package app

import (
	"time"

	"gob00/internal/b00"
	"gob00/internal/gpio"
)

// Default configuration constants
const (
	DefaultPin     = b00.DefaultPin
	DefaultHouse   = b00.DefaultHouse
	DefaultChannel = b00.DefaultChannel
	DefaultRepeats = b00.DefaultRepeats
	DefaultDevice  = gpio.DefaultDevice
	DefaultBroker  = "mqtt://localhost:1883/b00"
)

// Config holds application configuration
type Config struct {
	Pin          int
	House        uint8
	Channel      uint8
	Repeats      uint8
	DryRun       bool          // print bits to stdout instead of driving the pin
	Device       string        // GPIO register device
	Every        time.Duration // beacon interval, 0 sends once
	Broker       string        // MQTT broker URL for the bridge
	LogDir       string        // journal directory, empty disables the journal
	LogRotateUTC bool
	LogMaxDays   int // journal retention, 0 keeps all files
	Verbose      bool
	ShowVersion  bool
}

// DefaultConfig returns the configuration used when no flags are given
func DefaultConfig() Config {
	return Config{
		Pin:          DefaultPin,
		House:        DefaultHouse,
		Channel:      DefaultChannel,
		Repeats:      DefaultRepeats,
		Device:       DefaultDevice,
		Broker:       DefaultBroker,
		LogRotateUTC: true,
	}
}

func (c Config) senderConfig() b00.Config {
	return b00.Config{
		Pin:     c.Pin,
		House:   c.House,
		Channel: c.Channel,
		Repeats: c.Repeats,
	}
}

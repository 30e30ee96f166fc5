//go:build !linux

package gpio

import "fmt"

// Open always fails: GPIO memory mapping needs Linux.
func Open(device string) (*Chip, error) {
	return nil, fmt.Errorf("gpio: %s is not available on this platform, use --dry-run", device)
}

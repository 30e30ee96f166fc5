//go:build linux

package gpio

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Open maps the GPIO register block of device, usually DefaultDevice.
func Open(device string) (*Chip, error) {
	f, err := os.OpenFile(device, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("gpio: could not open %s: %w", device, err)
	}
	defer f.Close()

	data, err := unix.Mmap(
		int(f.Fd()),
		0, BlockSize,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		return nil, fmt.Errorf("gpio: could not mmap %s: %w", device, err)
	}
	if len(data) != BlockSize {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("gpio: invalid mmap'd data: %d", len(data))
	}

	regs := unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
	return newChip(regs, func() error {
		return unix.Munmap(data)
	}), nil
}

//go:build linux

package schedulers

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// PipeSignalAvailable reports that the fd-based signal can be constructed on
// this build target (eventfd mechanism).
const PipeSignalAvailable = true

// createWakeFDs creates an eventfd for wake-up notifications (Linux).
// Returns the single eventfd as both read and write ends.
func createWakeFDs() (int, int, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return -1, -1, err
	}
	return fd, fd, nil
}

// wakeWrite increments the eventfd counter. EAGAIN means the counter is
// saturated with the signal unconsumed, which coalesces.
func wakeWrite(fd int) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1) // host byte order per eventfd(2)
	_, err := unix.Write(fd, buf[:])
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

// wakeDrain reads the eventfd counter, resetting it to zero.
func wakeDrain(fd int) error {
	var buf [8]byte
	for {
		if _, err := unix.Read(fd, buf[:]); err != nil {
			if err == unix.EAGAIN {
				return nil
			}
			if err == unix.EINTR {
				continue
			}
			return err
		}
	}
}

// closeWakeFDs closes the wake eventfd (a single fd on Linux).
func closeWakeFDs(readFD, writeFD int) error {
	if readFD >= 0 {
		return unix.Close(readFD)
	}
	return nil
}

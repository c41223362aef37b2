//go:build unix && !linux

package schedulers

import (
	"golang.org/x/sys/unix"
)

// PipeSignalAvailable reports that the fd-based signal can be constructed on
// this build target (non-blocking pipe mechanism).
const PipeSignalAvailable = true

// createWakeFDs creates a non-blocking pipe pair for wake-up notifications.
func createWakeFDs() (int, int, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return -1, -1, err
	}
	for _, fd := range fds {
		if err := unix.SetNonblock(fd, true); err != nil {
			_ = unix.Close(fds[0])
			_ = unix.Close(fds[1])
			return -1, -1, err
		}
		unix.CloseOnExec(fd)
	}
	return fds[0], fds[1], nil
}

// wakeWrite writes one byte to the pipe. EAGAIN means the pipe is full with
// the signal unconsumed, which coalesces.
func wakeWrite(fd int) error {
	var buf [1]byte
	_, err := unix.Write(fd, buf[:])
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

// wakeDrain reads the pipe dry.
func wakeDrain(fd int) error {
	var buf [64]byte
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

// closeWakeFDs closes both pipe ends.
func closeWakeFDs(readFD, writeFD int) error {
	var err error
	if readFD >= 0 {
		err = unix.Close(readFD)
	}
	if writeFD >= 0 {
		if cerr := unix.Close(writeFD); err == nil {
			err = cerr
		}
	}
	return err
}

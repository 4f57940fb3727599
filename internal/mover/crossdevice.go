//go:build !windows

package mover

import (
	"errors"
	"os"
	"syscall"
)

// isCrossDevice reports whether err is the "invalid cross-device link"
// failure os.Rename returns when src and dst live on different
// filesystems/volumes, in which case the mover falls back to a
// copy-then-delete.
func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	errno, ok := linkErr.Err.(syscall.Errno)
	return ok && errno == syscall.EXDEV
}

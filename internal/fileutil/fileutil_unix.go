//go:build unix

package fileutil

import (
	"errors"

	"golang.org/x/sys/unix"
)

var errCrossDevice error = unix.EXDEV

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// fatalErrnos are the Win32 codes for handle exhaustion (4), an invalidated
// directory handle (6) and a failed notification buffer allocation (8).
var fatalErrnos = []syscall.Errno{4, 6, 8}

func isFatal(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// Package sys provides system utilities for the console.
//
// The subpackage eunix provides terminal attribute handling on Unix.
package sys

import (
	"github.com/mattn/go-isatty"
)

// IsATTY determines whether the given file is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

//go:build !windows && !plan9 && !js

package term

import (
	"fmt"
	"os"

	"src.teel.sh/pkg/errutil"
	"src.teel.sh/pkg/sys/eunix"
)

// Setup puts the terminal into the raw mode the Reader expects: no line
// buffering, no echo, and Ctrl-C, Ctrl-Z and Ctrl-\ delivered as bytes. It
// returns a function that restores the original attributes.
func Setup(in, out *os.File) (func() error, error) {
	// All fds pointing to the same terminal are equivalent, so use the input.
	fd := int(in.Fd())
	term, err := eunix.TermiosForFd(fd)
	if err != nil {
		return nil, fmt.Errorf("can't get terminal attribute: %s", err)
	}

	savedTermios := term.Copy()

	term.SetICanon(false)
	term.SetEcho(false)
	term.SetISig(false)
	term.SetIXon(false)
	term.SetICRNL(false)
	term.SetVMin(1)
	term.SetVTime(0)

	err = term.ApplyToFd(fd)
	if err != nil {
		return nil, fmt.Errorf("can't set up terminal attribute: %s", err)
	}

	restore := func() error {
		_, errWrite := out.WriteString(showCursor)
		return errutil.Multi(savedTermios.ApplyToFd(fd), errWrite)
	}
	return restore, nil
}

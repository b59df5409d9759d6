//go:build linux || solaris || darwin || dragonfly || freebsd || netbsd || openbsd

// Package eunix provides terminal utilities for Unix.
package eunix

import (
	"golang.org/x/sys/unix"
)

// Termios represents terminal attributes.
type Termios unix.Termios

// TermiosForFd returns the terminal attributes of the given file descriptor.
func TermiosForFd(fd int) (*Termios, error) {
	term, err := unix.IoctlGetTermios(fd, getAttrIOCTL)
	return (*Termios)(term), err
}

// ApplyToFd applies term to the given file descriptor.
func (term *Termios) ApplyToFd(fd int) error {
	return unix.IoctlSetTermios(fd, setAttrNowIOCTL, (*unix.Termios)(term))
}

// Copy returns a copy of term.
func (term *Termios) Copy() *Termios {
	v := *term
	return &v
}

// SetVTime sets the timeout in deciseconds for noncanonical read.
func (term *Termios) SetVTime(v uint8) {
	term.Cc[unix.VTIME] = v
}

// SetVMin sets the minimal number of characters for noncanonical read.
func (term *Termios) SetVMin(v uint8) {
	term.Cc[unix.VMIN] = v
}

// SetICanon sets the canonical flag.
func (term *Termios) SetICanon(v bool) {
	setFlag(&term.Lflag, unix.ICANON, v)
}

// SetEcho sets the echo flag.
func (term *Termios) SetEcho(v bool) {
	setFlag(&term.Lflag, unix.ECHO, v)
}

// SetISig sets the flag that turns Ctrl-C, Ctrl-Z and Ctrl-\ into signals.
func (term *Termios) SetISig(v bool) {
	setFlag(&term.Lflag, unix.ISIG, v)
}

// SetIXon sets the flag that makes Ctrl-S and Ctrl-Q pause and resume output.
func (term *Termios) SetIXon(v bool) {
	setFlag(&term.Iflag, unix.IXON, v)
}

// SetICRNL sets the CRNL iflag bit.
func (term *Termios) SetICRNL(v bool) {
	setFlag(&term.Iflag, unix.ICRNL, v)
}

// ICanon reports whether the canonical flag is set.
func (term *Termios) ICanon() bool { return term.Lflag&unix.ICANON != 0 }

// Echo reports whether the echo flag is set.
func (term *Termios) Echo() bool { return term.Lflag&unix.ECHO != 0 }

// ISig reports whether the signal flag is set.
func (term *Termios) ISig() bool { return term.Lflag&unix.ISIG != 0 }

func setFlag[T ~uint32 | ~uint64](flag *T, mask T, v bool) {
	if v {
		*flag |= mask
	} else {
		*flag &^= mask
	}
}

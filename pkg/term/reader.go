// Package term reads keys from and draws the line on a terminal.
package term

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"src.teel.sh/pkg/logutil"
	"src.teel.sh/pkg/ui"
)

var logger = logutil.GetLogger("[term] ")

// ErrStopped is returned by Reader.ReadKey when Close is called during the
// read.
var ErrStopped = errors.New("stopped")

var errTimeout = errors.New("timed out")

type seqError struct {
	msg string
	seq string
}

func (err seqError) Error() string {
	return fmt.Sprintf("%s: %q", err.msg, err.seq)
}

// IsReadErrorRecoverable returns whether an error returned by Reader is
// recoverable.
func IsReadErrorRecoverable(err error) bool {
	var se seqError
	if errors.As(err, &se) {
		return true
	}
	return err == ErrStopped || err == errTimeout
}

// Timeout for bytes in escape sequences. Modern terminal emulators send escape
// sequences very fast, so 10ms is more than sufficient. Telnet clients on a
// slow link might be problematic though.
var keySeqTimeout = 10 * time.Millisecond

// A source of bytes that supports timeouts.
type byteReaderWithTimeout interface {
	// ReadByteWithTimeout reads a single byte. A negative timeout means no
	// timeout. It returns errTimeout when the timeout is reached and
	// ErrStopped when Close is called during the read.
	ReadByteWithTimeout(timeout time.Duration) (byte, error)
	// Close aborts any outstanding read. It does not close the underlying
	// input.
	Close()
}

// Reader decodes a byte stream into keys.
type Reader struct {
	src       byteReaderWithTimeout
	closeOnce sync.Once
	// Sticky error from the underlying input.
	err error
	// Whether the last byte read was a carriage return.
	afterCR bool
}

// NewReader creates a new Reader on the given input. When the input is a
// file, reads wait on it together with a stop pipe, so that Close wakes a
// read blocked on a terminal. Other inputs are read by a separate goroutine.
func NewReader(r io.Reader) *Reader {
	if file, ok := r.(*os.File); ok {
		fr, err := newFileReader(file)
		if err == nil {
			return &Reader{src: fr}
		}
		logger.Println("falling back to goroutine reader:", err)
	}
	return &Reader{src: newPipeReader(r)}
}

// Close aborts any outstanding ReadKey call, which will return ErrStopped.
// Subsequent calls also return ErrStopped. It does not close the underlying
// input.
func (rd *Reader) Close() {
	rd.closeOnce.Do(rd.src.Close)
}

// readByte reads one byte. A negative timeout waits forever.
func (rd *Reader) readByte(timeout time.Duration) (byte, error) {
	if rd.err != nil {
		return 0, rd.err
	}
	b, err := rd.src.ReadByteWithTimeout(timeout)
	if err != nil && err != errTimeout && err != ErrStopped {
		rd.err = err
	}
	return b, err
}

// ReadKey reads and decodes a single key. An error from the underlying
// reader, such as io.EOF, is returned as is and is returned again by every
// subsequent call.
//
// Telnet clients end a line with CR LF or CR NUL. A LF or NUL that directly
// follows a CR is dropped, so that such a line is submitted once.
func (rd *Reader) ReadKey() (ui.Key, error) {
	var b byte
	for {
		var err error
		b, err = rd.readByte(-1)
		if err != nil {
			return ui.NoKey, err
		}
		afterCR := rd.afterCR
		rd.afterCR = b == '\r'
		if !afterCR || (b != '\n' && b != 0) {
			break
		}
	}
	if b != 0x1b {
		return ctrlModify(b), nil
	}
	k, err := rd.readEscape()
	if err != nil {
		logger.Println("bad sequence:", err)
	}
	return k, err
}

// Used by readEscape to signal end of current sequence.
const endOfSeq = -1

func (rd *Reader) readEscape() (ui.Key, error) {
	seq := "\033"
	// Reads a byte within keySeqTimeout. It returns endOfSeq if there is any
	// error; the caller should terminate the current sequence when it sees
	// that value.
	next := func() int {
		b, err := rd.readByte(keySeqTimeout)
		if err != nil {
			return endOfSeq
		}
		seq += string(rune(b))
		return int(b)
	}
	badSeq := func(msg string) (ui.Key, error) {
		return ui.NoKey, seqError{msg, seq}
	}

	b2 := next()
	// rxvt and derivatives prepend another ESC to a CSI-style or G3-style
	// sequence to signal Alt.
	twoESC := false
	if b2 == 0x1b {
		twoESC = true
		b2 = next()
	}
	switch b2 {
	case endOfSeq:
		// Nothing follows. Taken as a lone Escape.
		return ui.K('[', ui.Ctrl), nil
	case '[':
		b := next()
		if b == endOfSeq {
			return ui.K('[', ui.Alt), nil
		}
		nums := make([]int, 0, 2)
	CSISeq:
		for {
			switch {
			case b == ';':
				nums = append(nums, 0)
			case '0' <= b && b <= '9':
				if len(nums) == 0 {
					nums = append(nums, 0)
				}
				cur := len(nums) - 1
				nums[cur] = nums[cur]*10 + b - '0'
			case b == endOfSeq:
				return badSeq("incomplete CSI")
			default:
				break CSISeq
			}
			b = next()
		}
		k := parseCSI(nums, rune(b))
		if k == ui.NoKey {
			return badSeq("bad CSI")
		}
		if twoESC {
			k.Mod |= ui.Alt
		}
		return k, nil
	case 'O':
		b := next()
		if b == endOfSeq {
			// Nothing follows after 'O'. Taken as Alt-O.
			return ui.K('O', ui.Alt), nil
		}
		k, ok := g3Seq[rune(b)]
		if !ok {
			return badSeq("bad G3")
		}
		if twoESC {
			k.Mod |= ui.Alt
		}
		return k, nil
	default:
		// Something other than '[' or 'O' follows. Taken as an Alt-modified
		// key, possibly also modified by Ctrl.
		k := ctrlModify(byte(b2))
		k.Mod |= ui.Alt
		return k, nil
	}
}

// ctrlModify returns the key a single byte represents. Carriage return is
// Enter; line feed is Ctrl-J.
func ctrlModify(b byte) ui.Key {
	switch b {
	case 0x0:
		return ui.K('`', ui.Ctrl) // ^@
	case 0x1e:
		return ui.K('6', ui.Ctrl) // ^^
	case 0x1f:
		return ui.K('/', ui.Ctrl) // ^_
	case '\r':
		return ui.K(ui.Enter)
	case ui.Tab, ui.Backspace:
		return ui.K(rune(b))
	}
	if 0x1 <= b && b <= 0x1d {
		return ui.K(rune(b)+0x40, ui.Ctrl)
	}
	return ui.K(rune(b))
}

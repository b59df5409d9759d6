// Package linebuf implements the buffer of an in-progress input line.
//
// A Buffer keeps a byte slice and a dot (more commonly known as the cursor),
// a byte index into the content that always satisfies 0 <= dot <= len. Every
// mutation either completes fully or leaves the Buffer unchanged; growth goes
// through an Allocator that may refuse, in which case ErrOutOfMemory is
// returned.
package linebuf

import (
	"errors"
)

// ErrOutOfMemory is returned when the buffer needs to grow and its Allocator
// refuses.
var ErrOutOfMemory = errors.New("out of memory")

// DefaultMaxLen is the line length limit used by DefaultAllocator.
const DefaultMaxLen = 4096

// Mode is the mode in which plain bytes are put into the buffer.
type Mode int

// Possible values of Mode.
const (
	InsertMode Mode = iota
	OverwriteMode
)

func (m Mode) String() string {
	if m == OverwriteMode {
		return "overwrite"
	}
	return "insert"
}

// Allocator returns a new zero-length slice with capacity of at least need,
// given the current capacity. It returns ErrOutOfMemory if it cannot.
type Allocator func(oldCap, need int) ([]byte, error)

// LimitAllocator returns an Allocator that doubles the capacity on each growth
// and refuses to go beyond max bytes.
func LimitAllocator(max int) Allocator {
	return func(oldCap, need int) ([]byte, error) {
		if need > max {
			return nil, ErrOutOfMemory
		}
		newCap := oldCap * 2
		if newCap < 16 {
			newCap = 16
		}
		for newCap < need {
			newCap *= 2
		}
		if newCap > max {
			newCap = max
		}
		return make([]byte, 0, newCap), nil
	}
}

// DefaultAllocator is LimitAllocator(DefaultMaxLen).
var DefaultAllocator = LimitAllocator(DefaultMaxLen)

// Line is a copy of the buffer content together with the dot.
type Line struct {
	Content []byte
	Dot     int
}

// Buffer is an editable line. The zero value is an empty buffer in insert mode
// using DefaultAllocator.
type Buffer struct {
	content []byte
	dot     int
	mode    Mode
	alloc   Allocator
}

// New creates an empty Buffer with the given Allocator. A nil Allocator means
// DefaultAllocator.
func New(alloc Allocator) *Buffer {
	return &Buffer{alloc: alloc}
}

// Bytes returns the content. The result aliases the Buffer and is only valid
// until the next mutation.
func (b *Buffer) Bytes() []byte { return b.content }

// String returns the content as a string.
func (b *Buffer) String() string { return string(b.content) }

// Len returns the length of the content.
func (b *Buffer) Len() int { return len(b.content) }

// Cap returns the capacity of the underlying storage.
func (b *Buffer) Cap() int { return cap(b.content) }

// Dot returns the position of the dot.
func (b *Buffer) Dot() int { return b.dot }

// Mode returns the current mode.
func (b *Buffer) Mode() Mode { return b.mode }

// ToggleMode flips between insert and overwrite mode.
func (b *Buffer) ToggleMode() {
	if b.mode == InsertMode {
		b.mode = OverwriteMode
	} else {
		b.mode = InsertMode
	}
}

// Line returns a copy of the content and the dot.
func (b *Buffer) Line() Line {
	return Line{Content: append([]byte(nil), b.content...), Dot: b.dot}
}

// ensure makes room for n more bytes, reallocating if needed.
func (b *Buffer) ensure(n int) error {
	need := len(b.content) + n
	if need <= cap(b.content) {
		return nil
	}
	alloc := b.alloc
	if alloc == nil {
		alloc = DefaultAllocator
	}
	s, err := alloc(cap(b.content), need)
	if err != nil {
		return err
	}
	if cap(s) < need {
		return ErrOutOfMemory
	}
	b.content = append(s[:0], b.content...)
	return nil
}

// Insert inserts c at the dot and advances the dot.
func (b *Buffer) Insert(c byte) error {
	if err := b.ensure(1); err != nil {
		return err
	}
	n := len(b.content)
	b.content = b.content[:n+1]
	copy(b.content[b.dot+1:], b.content[b.dot:n])
	b.content[b.dot] = c
	b.dot++
	return nil
}

// Overwrite replaces the byte at the dot with c and advances the dot. At the
// end of the content it behaves like Insert.
func (b *Buffer) Overwrite(c byte) error {
	if b.dot == len(b.content) {
		return b.Insert(c)
	}
	b.content[b.dot] = c
	b.dot++
	return nil
}

// Put inserts or overwrites c according to the current mode.
func (b *Buffer) Put(c byte) error {
	if b.mode == OverwriteMode {
		return b.Overwrite(c)
	}
	return b.Insert(c)
}

// InsertString inserts s at the dot and moves the dot after it.
func (b *Buffer) InsertString(s string) error {
	return b.ReplaceRange(b.dot, b.dot, []byte(s))
}

// DeleteBackward removes the byte before the dot. It does nothing at the
// beginning of the content.
func (b *Buffer) DeleteBackward() {
	if b.dot > 0 {
		b.DeleteRange(b.dot-1, b.dot)
	}
}

// DeleteForward removes the byte at the dot. It does nothing at the end of the
// content.
func (b *Buffer) DeleteForward() {
	if b.dot < len(b.content) {
		b.DeleteRange(b.dot, b.dot+1)
	}
}

// DeleteRange removes the bytes in [from, to). The bounds are clamped and
// ordered. A dot inside the range moves to from; a dot after it moves left by
// the number of bytes removed.
func (b *Buffer) DeleteRange(from, to int) {
	from, to = b.span(from, to)
	if from == to {
		return
	}
	n := copy(b.content[from:], b.content[to:])
	b.content = b.content[:from+n]
	switch {
	case b.dot >= to:
		b.dot -= to - from
	case b.dot > from:
		b.dot = from
	}
}

// ReplaceRange replaces the bytes in [from, to) with text and puts the dot
// right after the inserted text. The bounds are clamped and ordered.
func (b *Buffer) ReplaceRange(from, to int, text []byte) error {
	from, to = b.span(from, to)
	if grow := len(text) - (to - from); grow > 0 {
		if err := b.ensure(grow); err != nil {
			return err
		}
	}
	n := len(b.content)
	newLen := n - (to - from) + len(text)
	if newLen > n {
		b.content = b.content[:newLen]
	}
	copy(b.content[from+len(text):], b.content[to:n])
	copy(b.content[from:], text)
	b.content = b.content[:newLen]
	b.dot = from + len(text)
	return nil
}

// SetLine replaces the whole content and the dot. The dot is clamped.
func (b *Buffer) SetLine(l Line) error {
	if err := b.ReplaceRange(0, len(b.content), l.Content); err != nil {
		return err
	}
	b.SetDot(l.Dot)
	return nil
}

// Reset empties the content and moves the dot to 0. The storage and the mode
// are kept.
func (b *Buffer) Reset() {
	b.content = b.content[:0]
	b.dot = 0
}

// Release empties the buffer and drops its storage.
func (b *Buffer) Release() {
	b.content = nil
	b.dot = 0
}

// Move moves the dot by delta, clamping it to [0, len]. Any delta is
// accepted, including math.MinInt and math.MaxInt.
func (b *Buffer) Move(delta int) {
	if delta > len(b.content)-b.dot {
		delta = len(b.content) - b.dot
	} else if delta < -b.dot {
		delta = -b.dot
	}
	b.dot += delta
}

// MoveToStart moves the dot to the beginning of the content.
func (b *Buffer) MoveToStart() { b.dot = 0 }

// MoveToEnd moves the dot to the end of the content.
func (b *Buffer) MoveToEnd() { b.dot = len(b.content) }

// SetDot moves the dot to i, clamping it to [0, len].
func (b *Buffer) SetDot(i int) { b.dot = clamp(i, len(b.content)) }

func (b *Buffer) span(from, to int) (int, int) {
	from, to = clamp(from, len(b.content)), clamp(to, len(b.content))
	if from > to {
		from, to = to, from
	}
	return from, to
}

func clamp(i, n int) int {
	switch {
	case i < 0:
		return 0
	case i > n:
		return n
	default:
		return i
	}
}

// Package history implements a fixed-capacity ring of submitted lines, with
// support for walking through it from the line being edited.
package history

import (
	"errors"

	"src.teel.sh/pkg/linebuf"
)

// ErrBadCapacity is returned when a capacity smaller than 1 is requested.
var ErrBadCapacity = errors.New("history capacity must be at least 1")

// Entry is a submitted line. Its Text is owned by the Ring and must not be
// modified.
type Entry struct {
	// Sequence number; the first line added to a Ring has 0.
	Seq  int
	Text []byte
}

func (e Entry) String() string { return string(e.Text) }

// StepKind tells what a call to Next did.
type StepKind int

// Possible values of StepKind.
const (
	// The Ring was not being browsed; nothing happened.
	NotBrowsing StepKind = iota
	// Moved to a newer entry, stored in Step.Entry.
	Moved
	// Stepped past the newest entry; browsing has ended and the line saved
	// when it began is in Step.Saved.
	Restored
)

// Step is the result of Next.
type Step struct {
	Kind  StepKind
	Entry Entry
	Saved linebuf.Line
}

// browsing is the state of an ongoing walk. A nil *browsing means the Ring is
// not being browsed.
type browsing struct {
	// The line being edited when browsing began.
	saved linebuf.Line
	// How far back the walk is: 1 is the newest entry.
	age int
}

// Ring is a fixed-capacity store of submitted lines. When full, adding a line
// evicts the oldest one. The zero value is not usable; create Rings with New.
type Ring struct {
	slots   []*Entry
	widx    int // next slot to write
	count   int // number of occupied slots
	nextSeq int
	walk    *browsing
	alloc   linebuf.Allocator
}

// New creates a Ring with the given capacity. A nil Allocator means entries
// are copied with the built-in allocation, which never fails.
func New(capacity int, alloc linebuf.Allocator) (*Ring, error) {
	if capacity < 1 {
		return nil, ErrBadCapacity
	}
	return &Ring{slots: make([]*Entry, capacity), alloc: alloc}, nil
}

// Cap returns the capacity.
func (r *Ring) Cap() int { return len(r.slots) }

// Len returns the number of stored entries.
func (r *Ring) Len() int { return r.count }

// Browsing reports whether a walk started by Prev is in progress.
func (r *Ring) Browsing() bool { return r.walk != nil }

// SetCapacity changes the capacity, keeping the newest entries that fit. When
// a walk is in progress, it stays on the same entry if that entry is kept, or
// moves to the oldest kept entry otherwise.
func (r *Ring) SetCapacity(n int) error {
	if n < 1 {
		return ErrBadCapacity
	}
	kept := r.Entries()
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	slots := make([]*Entry, n)
	for i := range kept {
		e := kept[i]
		slots[i] = &e
	}
	r.slots, r.count, r.widx = slots, len(kept), len(kept)%n
	if r.walk != nil && r.walk.age > r.count {
		r.walk.age = r.count
	}
	return nil
}

// Add copies line into a new entry, evicting the oldest entry if the Ring is
// full, and ends any walk in progress without restoring its saved line. If the
// copy cannot be allocated, the Ring is left unchanged.
func (r *Ring) Add(line []byte) error {
	var text []byte
	if r.alloc == nil {
		text = make([]byte, len(line))
	} else {
		s, err := r.alloc(0, len(line))
		if err != nil {
			return err
		}
		if cap(s) < len(line) {
			return linebuf.ErrOutOfMemory
		}
		text = s[:len(line)]
	}
	copy(text, line)

	r.slots[r.widx] = &Entry{Seq: r.nextSeq, Text: text}
	r.nextSeq++
	r.widx = (r.widx + 1) % len(r.slots)
	if r.count < len(r.slots) {
		r.count++
	}
	r.Reset()
	return nil
}

// Entry returns the entry at position pos, counting from the oldest stored
// entry. It returns false if pos is out of range or the slot is empty. The
// Text of the entry shares storage with the Ring and must not be modified.
func (r *Ring) Entry(pos int) (Entry, bool) {
	if pos < 0 || pos >= r.count {
		return Entry{}, false
	}
	return *r.slots[r.slot(r.count-pos)], true
}

// BySeq returns the entry with the given sequence number. It returns false if
// there has been no such entry or it has been evicted. The Text of the entry
// shares storage with the Ring and must not be modified.
func (r *Ring) BySeq(seq int) (Entry, bool) {
	if r.count == 0 {
		return Entry{}, false
	}
	newest := r.nextSeq - 1
	if seq > newest || seq <= newest-r.count {
		return Entry{}, false
	}
	return *r.slots[r.slot(newest-seq+1)], true
}

// Entries returns copies of all stored entries, oldest first.
func (r *Ring) Entries() []Entry {
	entries := make([]Entry, r.count)
	for i := range entries {
		e := *r.slots[r.slot(r.count-i)]
		e.Text = append([]byte(nil), e.Text...)
		entries[i] = e
	}
	return entries
}

// Prev walks to the next older entry. When no walk is in progress, it starts
// one, saving cur so that Next can restore it. It returns false when there is
// no older entry, in which case the walk stays where it is; an empty Ring never
// starts a walk. As with Entry, the returned Text must not be modified.
func (r *Ring) Prev(cur linebuf.Line) (Entry, bool) {
	if r.count == 0 {
		return Entry{}, false
	}
	if r.walk == nil {
		r.walk = &browsing{saved: copyLine(cur)}
	}
	if r.walk.age >= r.count {
		return Entry{}, false
	}
	r.walk.age++
	return *r.slots[r.slot(r.walk.age)], true
}

// Next walks to the next newer entry. Stepping past the newest entry ends the
// walk and returns the line saved when it began.
func (r *Ring) Next() Step {
	if r.walk == nil {
		return Step{Kind: NotBrowsing}
	}
	r.walk.age--
	if r.walk.age <= 0 {
		saved := r.walk.saved
		r.walk = nil
		return Step{Kind: Restored, Saved: saved}
	}
	return Step{Kind: Moved, Entry: *r.slots[r.slot(r.walk.age)]}
}

// Reset ends any walk in progress, discarding the saved line.
func (r *Ring) Reset() { r.walk = nil }

// Clear drops all entries and any walk in progress. The capacity and sequence
// numbering are kept.
func (r *Ring) Clear() {
	for i := range r.slots {
		r.slots[i] = nil
	}
	r.widx, r.count = 0, 0
	r.walk = nil
}

// slot returns the slot index of the entry that is age entries back from the
// write index; age 1 is the newest entry.
func (r *Ring) slot(age int) int {
	n := len(r.slots)
	return ((r.widx-age)%n + n) % n
}

func copyLine(l linebuf.Line) linebuf.Line {
	return linebuf.Line{Content: append([]byte(nil), l.Content...), Dot: l.Dot}
}

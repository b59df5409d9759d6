// Package edit implements the editing session of a console line: an edit
// buffer, a history ring and a fixed table of actions that act on them.
//
// A Session is driven by one input event at a time. Each event runs one action
// to completion and yields a Signal telling the caller what to do next. A
// Session is not safe for concurrent use.
package edit

import (
	"src.teel.sh/pkg/history"
	"src.teel.sh/pkg/linebuf"
	"src.teel.sh/pkg/logutil"
	"src.teel.sh/pkg/ui"
	"src.teel.sh/pkg/wordnav"
)

var logger = logutil.GetLogger("[edit] ")

// ErrOutOfMemory is returned by actions that could not allocate. The session
// is left as it was before the action.
var ErrOutOfMemory = linebuf.ErrOutOfMemory

// DefaultHistorySize is the history capacity used when Config.HistorySize is
// 0.
const DefaultHistorySize = 20

// Config keeps the configuration of a Session.
type Config struct {
	// Capacity of the history ring.
	HistorySize int
	// Bytes that separate words. Defaults to wordnav.Default.
	Whitespace *wordnav.Whitespace
	// Allocator for the edit buffer and history entries. Defaults to
	// linebuf.DefaultAllocator.
	Allocator linebuf.Allocator
	// Completion hook. If nil, the complete action does nothing.
	Completer Completer
	// Key bindings used by Handle. Defaults to DefaultBindings().
	Bindings Bindings
}

// Session is the editing state of one console.
type Session struct {
	buf       *linebuf.Buffer
	hist      *history.Ring
	ws        *wordnav.Whitespace
	completer Completer
	bindings  Bindings
}

// NewSession creates a Session from the given configuration.
func NewSession(cfg Config) (*Session, error) {
	if cfg.HistorySize == 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	if cfg.Whitespace == nil {
		cfg.Whitespace = wordnav.Default
	}
	if cfg.Allocator == nil {
		cfg.Allocator = linebuf.DefaultAllocator
	}
	if cfg.Bindings == nil {
		cfg.Bindings = DefaultBindings()
	}
	hist, err := history.New(cfg.HistorySize, cfg.Allocator)
	if err != nil {
		return nil, err
	}
	return &Session{
		buf:       linebuf.New(cfg.Allocator),
		hist:      hist,
		ws:        cfg.Whitespace,
		completer: cfg.Completer,
		bindings:  cfg.Bindings,
	}, nil
}

// Buffer returns the edit buffer. Callers should only read from it; mutations
// go through actions so that the history walk stays consistent.
func (s *Session) Buffer() *linebuf.Buffer { return s.buf }

// History returns the history ring.
func (s *Session) History() *history.Ring { return s.hist }

// Mode returns the insert/overwrite mode.
func (s *Session) Mode() linebuf.Mode { return s.buf.Mode() }

// Browsing reports whether the session is walking through history.
func (s *Session) Browsing() bool { return s.hist.Browsing() }

// SetHistorySize changes the history capacity, keeping the newest entries.
func (s *Session) SetHistorySize(n int) error { return s.hist.SetCapacity(n) }

// SetCompleter replaces the completion hook.
func (s *Session) SetCompleter(c Completer) { s.completer = c }

// Do runs an action.
func (s *Session) Do(a Action) (Signal, error) {
	if a <= NoAction || a >= actionCount {
		return Continue, nil
	}
	return handlers[a](s)
}

// Put puts a plain byte into the line according to the current mode.
func (s *Session) Put(c byte) (Signal, error) {
	return s.edit(func(b *linebuf.Buffer) error { return b.Put(c) })
}

// Handle runs the action bound to k. A printable key without a binding is put
// into the line; other keys without a binding are ignored.
func (s *Session) Handle(k ui.Key) (Signal, error) {
	if a, ok := s.bindings[k]; ok {
		return s.Do(a)
	}
	if k.IsPrintable() {
		return s.Put(byte(k.Rune))
	}
	logger.Printf("no binding for %v", k)
	return Continue, nil
}

// Accept takes the finished line after a Submit signal: it records the line
// in history unless it is empty, and clears the buffer. If the line cannot be
// recorded, the error is returned and the buffer is left untouched.
func (s *Session) Accept() (string, error) {
	line := s.buf.String()
	if line != "" {
		if err := s.hist.Add(s.buf.Bytes()); err != nil {
			logger.Printf("cannot record line of %d bytes: %v", len(line), err)
			return line, err
		}
	}
	s.hist.Reset()
	s.buf.Reset()
	return line, nil
}

// Discard clears the line without recording it.
func (s *Session) Discard() {
	s.hist.Reset()
	s.buf.Reset()
}

// Close releases the buffer and the history. The Session must not be used
// afterwards.
func (s *Session) Close() {
	s.buf.Release()
	s.hist.Clear()
}

// edit runs a mutation of the buffer. Any history walk is ended first, so
// that its saved line is never restored over an unrelated edit.
func (s *Session) edit(f func(*linebuf.Buffer) error) (Signal, error) {
	s.hist.Reset()
	if err := f(s.buf); err != nil {
		logger.Printf("edit failed: %v", err)
		return Continue, err
	}
	return Continue, nil
}

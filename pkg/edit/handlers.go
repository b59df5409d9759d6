package edit

import (
	"src.teel.sh/pkg/history"
	"src.teel.sh/pkg/linebuf"
	"src.teel.sh/pkg/wordnav"
)

type handler func(*Session) (Signal, error)

var handlers = [actionCount]handler{
	Backspace:      makeEdit(func(b *linebuf.Buffer) { b.DeleteBackward() }),
	Delete:         makeEdit(func(b *linebuf.Buffer) { b.DeleteForward() }),
	DeletePrevWord: makeKill(wordnav.PrevBoundary),
	DeleteNextWord: makeKill(wordnav.NextBoundary),

	EditDone:  signal(Submit),
	LineBreak: signal(Submit),

	MoveLeft:       makeMove(func(b *linebuf.Buffer) { b.Move(-1) }),
	MoveRight:      makeMove(func(b *linebuf.Buffer) { b.Move(1) }),
	MoveToStart:    makeMove((*linebuf.Buffer).MoveToStart),
	MoveToEnd:      makeMove((*linebuf.Buffer).MoveToEnd),
	MoveToPrevWord: makeWordMove(wordnav.PrevBoundary),
	MoveToNextWord: makeWordMove(wordnav.NextBoundary),

	Exit:            signal(Terminate),
	ToggleOverwrite: makeMove((*linebuf.Buffer).ToggleMode),
	Suspend:         signal(Suspended),
	Interrupt:       signal(Interrupted),
	EOF:             signal(EndOfInput),

	HistoryPrev: historyPrev,
	HistoryNext: historyNext,
	Complete:    complete,

	DebugF11: makeInsert(DebugF11Text, DebugF11Pressed),
	DebugF12: makeInsert(DebugF12Text, DebugF12Pressed),
	TestABC:  makeInsert(TestABCText, Continue),
	Test012:  makeInsert(Test012Text, Continue),
}

// A function that finds a word boundary from the dot.
type boundary func(ws *wordnav.Whitespace, content []byte, dot int) int

func signal(sig Signal) handler {
	return func(*Session) (Signal, error) { return sig, nil }
}

// makeMove derives an action that changes the dot or the mode but not the
// content; such actions do not end a history walk.
func makeMove(f func(*linebuf.Buffer)) handler {
	return func(s *Session) (Signal, error) {
		f(s.buf)
		return Continue, nil
	}
}

func makeWordMove(f boundary) handler {
	return func(s *Session) (Signal, error) {
		s.buf.SetDot(f(s.ws, s.buf.Bytes(), s.buf.Dot()))
		return Continue, nil
	}
}

// makeEdit derives an action that changes the content and cannot fail.
func makeEdit(f func(*linebuf.Buffer)) handler {
	return func(s *Session) (Signal, error) {
		return s.edit(func(b *linebuf.Buffer) error {
			f(b)
			return nil
		})
	}
}

// makeKill derives an action that deletes the text between the dot and the
// boundary found by f.
func makeKill(f boundary) handler {
	return func(s *Session) (Signal, error) {
		return s.edit(func(b *linebuf.Buffer) error {
			b.DeleteRange(b.Dot(), f(s.ws, b.Bytes(), b.Dot()))
			return nil
		})
	}
}

func makeInsert(text string, sig Signal) handler {
	return func(s *Session) (Signal, error) {
		if _, err := s.edit(func(b *linebuf.Buffer) error { return b.InsertString(text) }); err != nil {
			return Continue, err
		}
		return sig, nil
	}
}

func historyPrev(s *Session) (Signal, error) {
	e, ok := s.hist.Prev(s.buf.Line())
	if !ok {
		return Continue, nil
	}
	if err := s.buf.SetLine(linebuf.Line{Content: e.Text, Dot: len(e.Text)}); err != nil {
		// Step back so that the walk matches the buffer again.
		s.hist.Next()
		return Continue, err
	}
	return Continue, nil
}

func historyNext(s *Session) (Signal, error) {
	step := s.hist.Next()
	var err error
	switch step.Kind {
	case history.Moved:
		err = s.buf.SetLine(linebuf.Line{Content: step.Entry.Text, Dot: len(step.Entry.Text)})
		if err != nil {
			s.hist.Prev(linebuf.Line{})
		}
	case history.Restored:
		err = s.buf.SetLine(step.Saved)
	}
	return Continue, err
}

func complete(s *Session) (Signal, error) {
	if s.completer == nil {
		return Continue, nil
	}
	from, to := wordnav.WordAt(s.ws, s.buf.Bytes(), s.buf.Dot())
	word := append([]byte(nil), s.buf.Bytes()[from:to]...)
	replacement, ok := s.completer.Complete(word)
	if !ok {
		return Continue, nil
	}
	return s.edit(func(b *linebuf.Buffer) error {
		return b.ReplaceRange(from, to, replacement)
	})
}

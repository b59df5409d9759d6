package edit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.teel.sh/pkg/linebuf"
	"src.teel.sh/pkg/ui"
)

type state struct {
	Line string
	Dot  int
}

func newSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func setLine(t *testing.T, s *Session, line string, dot int) {
	t.Helper()
	if err := s.buf.SetLine(linebuf.Line{Content: []byte(line), Dot: dot}); err != nil {
		t.Fatalf("SetLine: %v", err)
	}
}

func stateOf(s *Session) state {
	return state{s.buf.String(), s.buf.Dot()}
}

func typeString(t *testing.T, s *Session, text string) {
	t.Helper()
	for i := 0; i < len(text); i++ {
		if _, err := s.Put(text[i]); err != nil {
			t.Fatalf("Put(%q): %v", text[i], err)
		}
	}
}

func submit(t *testing.T, s *Session, text string) {
	t.Helper()
	typeString(t, s, text)
	if sig, _ := s.Do(EditDone); sig != Submit {
		t.Fatalf("edit-done returned %v", sig)
	}
	if _, err := s.Accept(); err != nil {
		t.Fatalf("Accept: %v", err)
	}
}

var doTests = []struct {
	name    string
	before  state
	action  Action
	after   state
	wantSig Signal
}{
	{"backspace", state{"abc", 3}, Backspace, state{"ab", 2}, Continue},
	{"backspace at start", state{"abc", 0}, Backspace, state{"abc", 0}, Continue},
	{"delete", state{"abc", 1}, Delete, state{"ac", 1}, Continue},
	{"delete at end", state{"abc", 3}, Delete, state{"abc", 3}, Continue},
	{"delete-prev-word", state{"foo  bar baz", 12}, DeletePrevWord, state{"foo  bar ", 9}, Continue},
	{"delete-prev-word in whitespace", state{"foo  bar", 5}, DeletePrevWord, state{"bar", 0}, Continue},
	{"delete-next-word", state{"foo  bar baz", 0}, DeleteNextWord, state{"bar baz", 0}, Continue},
	{"delete-next-word mid-word", state{"foo  bar baz", 6}, DeleteNextWord, state{"foo  bbaz", 6}, Continue},

	{"edit-done", state{"ls", 1}, EditDone, state{"ls", 1}, Submit},
	{"line-break", state{"ls", 2}, LineBreak, state{"ls", 2}, Submit},

	{"move-left", state{"abc", 3}, MoveLeft, state{"abc", 2}, Continue},
	{"move-left at start", state{"abc", 0}, MoveLeft, state{"abc", 0}, Continue},
	{"move-right", state{"abc", 1}, MoveRight, state{"abc", 2}, Continue},
	{"move-right at end", state{"abc", 3}, MoveRight, state{"abc", 3}, Continue},
	{"move-to-start", state{"abc", 2}, MoveToStart, state{"abc", 0}, Continue},
	{"move-to-end", state{"abc", 1}, MoveToEnd, state{"abc", 3}, Continue},
	{"move-to-prev-word", state{"foo  bar baz", 9}, MoveToPrevWord, state{"foo  bar baz", 5}, Continue},
	{"move-to-next-word", state{"foo  bar baz", 0}, MoveToNextWord, state{"foo  bar baz", 5}, Continue},
	{"move-to-next-word at last word", state{"foo  bar baz", 10}, MoveToNextWord, state{"foo  bar baz", 12}, Continue},

	{"exit", state{"x", 1}, Exit, state{"x", 1}, Terminate},
	{"suspend", state{"", 0}, Suspend, state{"", 0}, Suspended},
	{"interrupt", state{"x", 0}, Interrupt, state{"x", 0}, Interrupted},
	{"eof", state{"", 0}, EOF, state{"", 0}, EndOfInput},

	{"debug-f11", state{"ab", 1}, DebugF11, state{"a<F11>b", 6}, DebugF11Pressed},
	{"debug-f12", state{"", 0}, DebugF12, state{"<F12>", 5}, DebugF12Pressed},
	{"test-abc", state{"", 0}, TestABC, state{TestABCText, 26}, Continue},
	{"test-012", state{"x", 0}, Test012, state{"0123456789x", 10}, Continue},

	{"none", state{"abc", 1}, NoAction, state{"abc", 1}, Continue},
	{"out of range", state{"abc", 1}, Action(1000), state{"abc", 1}, Continue},
}

func TestDo(t *testing.T) {
	for _, test := range doTests {
		t.Run(test.name, func(t *testing.T) {
			s := newSession(t, Config{})
			setLine(t, s, test.before.Line, test.before.Dot)
			sig, err := s.Do(test.action)
			if err != nil {
				t.Errorf("got error %v", err)
			}
			if sig != test.wantSig {
				t.Errorf("got signal %v, want %v", sig, test.wantSig)
			}
			if diff := cmp.Diff(test.after, stateOf(s)); diff != "" {
				t.Errorf("state (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDo_DotStaysInRange(t *testing.T) {
	starts := []state{{"", 0}, {"a", 0}, {"a", 1}, {"foo  bar baz", 4}, {"  x  ", 5}}
	for _, start := range starts {
		for a := NoAction; a < actionCount; a++ {
			s := newSession(t, Config{})
			setLine(t, s, start.Line, start.Dot)
			s.Do(a)
			if dot, n := s.buf.Dot(), s.buf.Len(); dot < 0 || dot > n {
				t.Errorf("%v on %v: dot %d out of [0, %d]", a, start, dot, n)
			}
		}
	}
}

func TestPut(t *testing.T) {
	s := newSession(t, Config{})
	setLine(t, s, "abc", 1)

	s.Put('X')
	if diff := cmp.Diff(state{"aXbc", 2}, stateOf(s)); diff != "" {
		t.Errorf("insert (-want +got):\n%s", diff)
	}

	s.Do(ToggleOverwrite)
	if s.Mode() != linebuf.OverwriteMode {
		t.Errorf("mode %v after toggle, want overwrite", s.Mode())
	}
	s.Put('Y')
	if diff := cmp.Diff(state{"aXYc", 3}, stateOf(s)); diff != "" {
		t.Errorf("overwrite (-want +got):\n%s", diff)
	}
	s.Put('Z')
	s.Put('!')
	if diff := cmp.Diff(state{"aXYZ!", 5}, stateOf(s)); diff != "" {
		t.Errorf("overwrite at end (-want +got):\n%s", diff)
	}

	s.Do(ToggleOverwrite)
	if s.Mode() != linebuf.InsertMode {
		t.Errorf("mode %v after second toggle, want insert", s.Mode())
	}
}

func TestPut_OutOfMemory(t *testing.T) {
	s := newSession(t, Config{Allocator: linebuf.LimitAllocator(4)})
	typeString(t, s, "abcd")

	sig, err := s.Put('e')
	if sig != Continue || !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("Put returned (%v, %v), want (continue, ErrOutOfMemory)", sig, err)
	}
	_, err = s.Do(TestABC)
	if !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("test-abc returned %v, want ErrOutOfMemory", err)
	}
	if diff := cmp.Diff(state{"abcd", 4}, stateOf(s)); diff != "" {
		t.Errorf("state changed by failed edits (-want +got):\n%s", diff)
	}
}

func TestHandle(t *testing.T) {
	s := newSession(t, Config{})

	for _, k := range []ui.Key{ui.K('h'), ui.K('i'), ui.K(' '), ui.K(0xc3), ui.K(0xa9)} {
		if sig, err := s.Handle(k); sig != Continue || err != nil {
			t.Errorf("Handle(%v) returned (%v, %v)", k, sig, err)
		}
	}
	if got, want := s.buf.String(), "hi é"; got != want {
		t.Errorf("line %q, want %q", got, want)
	}

	s.Handle(ui.K('A', ui.Ctrl))
	if dot := s.buf.Dot(); dot != 0 {
		t.Errorf("dot %d after Ctrl-A, want 0", dot)
	}

	// Unbound non-printable keys are ignored.
	for _, k := range []ui.Key{ui.K(ui.F1), ui.K('x', ui.Alt), ui.K(0x01)} {
		before := stateOf(s)
		if sig, err := s.Handle(k); sig != Continue || err != nil {
			t.Errorf("Handle(%v) returned (%v, %v)", k, sig, err)
		}
		if after := stateOf(s); after != before {
			t.Errorf("Handle(%v) changed state from %v to %v", k, before, after)
		}
	}

	if sig, _ := s.Handle(ui.K(ui.Enter)); sig != Submit {
		t.Errorf("Enter returned %v, want submit", sig)
	}
	if sig, _ := s.Handle(ui.K('J', ui.Ctrl)); sig != Submit {
		t.Errorf("Ctrl-J returned %v, want submit", sig)
	}
	if sig, _ := s.Handle(ui.K('\\', ui.Ctrl)); sig != Terminate {
		t.Errorf("Ctrl-\\ returned %v, want terminate", sig)
	}
}

func TestHandle_CustomBindings(t *testing.T) {
	b := Bindings{ui.K('q', ui.Alt): Exit}
	s := newSession(t, Config{Bindings: b})
	if sig, _ := s.Handle(ui.K('q', ui.Alt)); sig != Terminate {
		t.Errorf("Alt-q returned %v, want terminate", sig)
	}
	// Default bindings are not merged in.
	s.Handle(ui.K(ui.Enter))
	if sig, _ := s.Handle(ui.K('C', ui.Ctrl)); sig != Continue {
		t.Errorf("Ctrl-C returned %v, want continue", sig)
	}
}

func TestAccept(t *testing.T) {
	s := newSession(t, Config{})
	typeString(t, s, "hello")
	line, err := s.Accept()
	if line != "hello" || err != nil {
		t.Errorf("Accept returned (%q, %v)", line, err)
	}
	if s.buf.Len() != 0 || s.buf.Dot() != 0 {
		t.Errorf("buffer not cleared: %v", stateOf(s))
	}
	if n := s.History().Len(); n != 1 {
		t.Errorf("history has %d entries, want 1", n)
	}

	// Empty lines are not recorded.
	line, err = s.Accept()
	if line != "" || err != nil {
		t.Errorf("Accept returned (%q, %v)", line, err)
	}
	if n := s.History().Len(); n != 1 {
		t.Errorf("history has %d entries after empty line, want 1", n)
	}
}

func TestAccept_OutOfMemory(t *testing.T) {
	fail := false
	alloc := func(oldCap, need int) ([]byte, error) {
		if fail {
			return nil, ErrOutOfMemory
		}
		return make([]byte, 0, need*2), nil
	}
	s := newSession(t, Config{Allocator: alloc})
	typeString(t, s, "abc")

	fail = true
	line, err := s.Accept()
	if line != "abc" || !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("Accept returned (%q, %v), want (\"abc\", ErrOutOfMemory)", line, err)
	}
	if diff := cmp.Diff(state{"abc", 3}, stateOf(s)); diff != "" {
		t.Errorf("buffer changed by failed Accept (-want +got):\n%s", diff)
	}
	if n := s.History().Len(); n != 0 {
		t.Errorf("history has %d entries, want 0", n)
	}
}

func TestDiscard(t *testing.T) {
	s := newSession(t, Config{})
	submit(t, s, "old")
	typeString(t, s, "new")
	s.Do(HistoryPrev)
	s.Discard()
	if s.buf.Len() != 0 || s.Browsing() {
		t.Errorf("after Discard: %v, browsing %v", stateOf(s), s.Browsing())
	}
	if n := s.History().Len(); n != 1 {
		t.Errorf("history has %d entries, want 1", n)
	}
}

func TestHistoryBrowsing(t *testing.T) {
	s := newSession(t, Config{})
	submit(t, s, "one")
	submit(t, s, "two")
	typeString(t, s, "dr")
	s.Do(MoveLeft)

	steps := []struct {
		action   Action
		want     state
		browsing bool
	}{
		{HistoryPrev, state{"two", 3}, true},
		{HistoryPrev, state{"one", 3}, true},
		// Stays at the oldest entry.
		{HistoryPrev, state{"one", 3}, true},
		// Cursor movement keeps browsing.
		{MoveToStart, state{"one", 0}, true},
		{HistoryNext, state{"two", 3}, true},
		// Past the newest entry, the saved line comes back.
		{HistoryNext, state{"dr", 1}, false},
		{HistoryNext, state{"dr", 1}, false},
	}
	for i, step := range steps {
		s.Do(step.action)
		if diff := cmp.Diff(step.want, stateOf(s)); diff != "" {
			t.Errorf("step %d (%v) (-want +got):\n%s", i, step.action, diff)
		}
		if s.Browsing() != step.browsing {
			t.Errorf("step %d (%v): browsing %v, want %v", i, step.action, s.Browsing(), step.browsing)
		}
	}
}

func TestHistoryBrowsing_EditEndsWalk(t *testing.T) {
	s := newSession(t, Config{})
	submit(t, s, "one")
	submit(t, s, "two")
	typeString(t, s, "draft")

	s.Do(HistoryPrev)
	s.Put('!')
	if s.Browsing() {
		t.Errorf("still browsing after an edit")
	}
	// The saved line is stale and must not come back.
	s.Do(HistoryNext)
	if diff := cmp.Diff(state{"two!", 4}, stateOf(s)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	s.Do(HistoryPrev)
	s.Do(HistoryPrev)
	s.Do(DeletePrevWord)
	if s.Browsing() {
		t.Errorf("still browsing after delete-prev-word")
	}
	// Even edits that change nothing end the walk.
	s.Do(HistoryPrev)
	s.Do(MoveToEnd)
	s.Do(Delete)
	if s.Browsing() {
		t.Errorf("still browsing after a no-op delete")
	}
}

func TestHistoryBrowsing_Empty(t *testing.T) {
	s := newSession(t, Config{})
	typeString(t, s, "x")
	s.Do(HistoryPrev)
	if s.Browsing() {
		t.Errorf("browsing an empty history")
	}
	if diff := cmp.Diff(state{"x", 1}, stateOf(s)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestHistoryBrowsing_OutOfMemory(t *testing.T) {
	fail := false
	alloc := func(oldCap, need int) ([]byte, error) {
		if fail {
			return nil, ErrOutOfMemory
		}
		return make([]byte, 0, need), nil
	}
	s := newSession(t, Config{Allocator: alloc})
	if err := s.History().Add([]byte("a long history entry")); err != nil {
		t.Fatal(err)
	}

	fail = true
	_, err := s.Do(HistoryPrev)
	if !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("history-prev returned %v, want ErrOutOfMemory", err)
	}
	if s.Browsing() || s.buf.Len() != 0 {
		t.Errorf("failed history-prev left %v, browsing %v", stateOf(s), s.Browsing())
	}
}

func TestHistoryEviction(t *testing.T) {
	s := newSession(t, Config{HistorySize: 2})
	for _, line := range []string{"a", "b", "c"} {
		submit(t, s, line)
	}
	var got []string
	for _, e := range s.History().Entries() {
		got = append(got, e.String())
	}
	if diff := cmp.Diff([]string{"b", "c"}, got); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}

	if err := s.SetHistorySize(1); err != nil {
		t.Fatal(err)
	}
	s.Do(HistoryPrev)
	if got := s.buf.String(); got != "c" {
		t.Errorf("line %q after shrink, want \"c\"", got)
	}
}

var completeTests = []struct {
	name   string
	before state
	after  state
}{
	{"whole line", state{"pl", 2}, state{"please", 6}},
	{"word between words", state{"say pl more", 6}, state{"say please more", 10}},
	{"dot inside word", state{"say pl more", 5}, state{"say please more", 10}},
	{"no match", state{"say xy", 6}, state{"say xy", 6}},
	{"empty word", state{"say ", 4}, state{"say ", 4}},
}

func TestComplete(t *testing.T) {
	var words [][]byte
	completer := CompleterFunc(func(word []byte) ([]byte, bool) {
		words = append(words, word)
		if string(word) == "pl" {
			return []byte("please"), true
		}
		return nil, false
	})
	for _, test := range completeTests {
		t.Run(test.name, func(t *testing.T) {
			s := newSession(t, Config{Completer: completer})
			setLine(t, s, test.before.Line, test.before.Dot)
			if sig, err := s.Do(Complete); sig != Continue || err != nil {
				t.Errorf("complete returned (%v, %v)", sig, err)
			}
			if diff := cmp.Diff(test.after, stateOf(s)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
	if len(words) == 0 || string(words[0]) != "pl" {
		t.Errorf("completer called with %q", words)
	}
}

func TestComplete_NoCompleter(t *testing.T) {
	s := newSession(t, Config{})
	setLine(t, s, "pl", 2)
	s.Do(Complete)
	if diff := cmp.Diff(state{"pl", 2}, stateOf(s)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	s.SetCompleter(CompleterFunc(func([]byte) ([]byte, bool) { return []byte("plot"), true }))
	s.Do(Complete)
	if diff := cmp.Diff(state{"plot", 4}, stateOf(s)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestClose(t *testing.T) {
	s, err := NewSession(Config{})
	if err != nil {
		t.Fatal(err)
	}
	submit(t, s, "x")
	typeString(t, s, "y")
	s.Close()
	if s.buf.Len() != 0 || s.buf.Cap() != 0 || s.History().Len() != 0 {
		t.Errorf("Close left line %q (cap %d), %d history entries",
			s.buf.String(), s.buf.Cap(), s.History().Len())
	}
}

func TestNewSession_BadHistorySize(t *testing.T) {
	if _, err := NewSession(Config{HistorySize: -1}); err == nil {
		t.Errorf("NewSession with negative history size succeeded")
	}
}

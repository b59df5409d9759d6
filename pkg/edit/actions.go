package edit

import "fmt"

// Action is an editing action. The set of actions is fixed; each one maps to a
// function in the handlers table.
type Action int

// Possible values of Action.
const (
	NoAction Action = iota

	Backspace
	Delete
	DeletePrevWord
	DeleteNextWord

	EditDone
	LineBreak

	MoveLeft
	MoveRight
	MoveToStart
	MoveToEnd
	MoveToPrevWord
	MoveToNextWord

	Exit
	ToggleOverwrite
	Suspend
	Interrupt
	EOF

	HistoryPrev
	HistoryNext
	Complete

	DebugF11
	DebugF12
	TestABC
	Test012

	actionCount
)

var actionNames = [actionCount]string{
	NoAction: "none",

	Backspace:      "backspace",
	Delete:         "delete",
	DeletePrevWord: "delete-prev-word",
	DeleteNextWord: "delete-next-word",

	EditDone:  "edit-done",
	LineBreak: "line-break",

	MoveLeft:       "move-left",
	MoveRight:      "move-right",
	MoveToStart:    "move-to-start",
	MoveToEnd:      "move-to-end",
	MoveToPrevWord: "move-to-prev-word",
	MoveToNextWord: "move-to-next-word",

	Exit:            "exit",
	ToggleOverwrite: "toggle-overwrite",
	Suspend:         "suspend",
	Interrupt:       "interrupt",
	EOF:             "eof",

	HistoryPrev: "history-prev",
	HistoryNext: "history-next",
	Complete:    "complete",

	DebugF11: "debug-f11",
	DebugF12: "debug-f12",
	TestABC:  "test-abc",
	Test012:  "test-012",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("(bad action %d)", int(a))
	}
	return actionNames[a]
}

// ParseAction returns the Action with the given name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return NoAction, fmt.Errorf("bad action: %s", name)
}

// Signal tells the caller of an action what to do next.
type Signal int

// Possible values of Signal.
const (
	// An ordinary edit; the caller should redraw the line.
	Continue Signal = iota
	// The line is complete. The caller should call Session.Accept to take it.
	Submit
	// A graceful close was requested.
	Terminate
	// Abnormal termination requests. How to respond to them is up to the
	// caller.
	Interrupted
	Suspended
	EndOfInput
	// Diagnostic signals returned by the debug actions.
	DebugF11Pressed
	DebugF12Pressed
)

var signalNames = [...]string{
	Continue:        "continue",
	Submit:          "submit",
	Terminate:       "terminate",
	Interrupted:     "interrupt",
	Suspended:       "suspend",
	EndOfInput:      "end-of-input",
	DebugF11Pressed: "debug-f11",
	DebugF12Pressed: "debug-f12",
}

func (s Signal) String() string {
	if s < 0 || int(s) >= len(signalNames) {
		return fmt.Sprintf("(bad signal %d)", int(s))
	}
	return signalNames[s]
}

// Literal strings inserted by the diagnostic actions.
const (
	DebugF11Text = "<F11>"
	DebugF12Text = "<F12>"
	TestABCText  = "abcdefghijklmnopqrstuvwxyz"
	Test012Text  = "0123456789"
)

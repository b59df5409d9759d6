package edit

import (
	"fmt"
	"sort"

	"src.teel.sh/pkg/ui"
)

// Bindings maps keys to actions.
type Bindings map[ui.Key]Action

// DefaultBindings returns the bindings used when none are configured. The
// returned map is a fresh copy and may be modified.
func DefaultBindings() Bindings {
	return Bindings{
		ui.K('A', ui.Ctrl): MoveToStart,
		ui.K('E', ui.Ctrl): MoveToEnd,
		ui.K('B', ui.Ctrl): MoveLeft,
		ui.K('F', ui.Ctrl): MoveRight,
		ui.K(ui.Left):      MoveLeft,
		ui.K(ui.Right):     MoveRight,
		ui.K(ui.Home):      MoveToStart,
		ui.K(ui.End):       MoveToEnd,
		ui.K('b', ui.Alt):  MoveToPrevWord,
		ui.K('f', ui.Alt):  MoveToNextWord,

		ui.K('H', ui.Ctrl): Backspace,
		ui.K(ui.Backspace): Backspace,
		ui.K(ui.Delete):    Delete,
		ui.K('W', ui.Ctrl): DeletePrevWord,
		ui.K('d', ui.Alt):  DeleteNextWord,

		ui.K('D', ui.Ctrl):  EOF,
		ui.K('C', ui.Ctrl):  Interrupt,
		ui.K('Z', ui.Ctrl):  Suspend,
		ui.K('\\', ui.Ctrl): Exit,

		ui.K(ui.Up):     HistoryPrev,
		ui.K(ui.Down):   HistoryNext,
		ui.K(ui.Tab):    Complete,
		ui.K(ui.Insert): ToggleOverwrite,

		ui.K(ui.F11): DebugF11,
		ui.K(ui.F12): DebugF12,

		ui.K(ui.Enter):     EditDone,
		ui.K('J', ui.Ctrl): LineBreak,
	}
}

// Apply parses a map from key names to action names and applies it on top of
// b. An action named "none" removes the binding of the key. Nothing is
// changed if any key or action is malformed.
func (b Bindings) Apply(raw map[string]string) error {
	parsed, err := ParseBindings(raw)
	if err != nil {
		return err
	}
	for k, a := range parsed {
		if a == NoAction {
			delete(b, k)
		} else {
			b[k] = a
		}
	}
	return nil
}

// ParseBindings parses a map from key names to action names. Malformed
// entries are reported in a stable order.
func ParseBindings(raw map[string]string) (Bindings, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	parsed := make(Bindings, len(raw))
	for _, name := range names {
		k, err := ui.ParseKey(name)
		if err != nil {
			return nil, err
		}
		a, err := ParseAction(raw[name])
		if err != nil {
			return nil, fmt.Errorf("binding for %s: %w", name, err)
		}
		parsed[k] = a
	}
	return parsed, nil
}

// Keys returns the keys bound to a, sorted by their string form.
func (b Bindings) Keys(a Action) []ui.Key {
	var keys []ui.Key
	for k, ka := range b {
		if ka == a {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

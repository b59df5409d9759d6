package term

import "src.teel.sh/pkg/ui"

// G3-style sequences: ESC O followed by exactly one byte. The only modifier
// they can carry is Alt, signaled by a second leading ESC.
var g3Seq = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End), 'M': ui.K(ui.Insert),
	// urxvt
	'a': ui.K(ui.Up, ui.Ctrl), 'b': ui.K(ui.Down, ui.Ctrl),
	'c': ui.K(ui.Right, ui.Ctrl), 'd': ui.K(ui.Left, ui.Ctrl),
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
}

// CSI-style sequences identified by the final byte, like ESC [ A for Up. A
// modified key carries two arguments, 1 and the modifier: ESC [ 1 ; 5 A is
// Ctrl-Up.
var csiSeqByLast = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	// urxvt
	'a': ui.K(ui.Up, ui.Shift), 'b': ui.K(ui.Down, ui.Shift),
	'c': ui.K(ui.Right, ui.Shift), 'd': ui.K(ui.Left, ui.Shift),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	'Z': ui.K(ui.Tab, ui.Shift),
}

// CSI-style sequences ending in '~'. The first argument identifies the key
// and the optional second one the modifier: ESC [ 3 ~ is Delete and
// ESC [ 3 ; 5 ~ is Ctrl-Delete. urxvt instead replaces the '~' with '$' for
// Shift, '^' for Ctrl and '@' for both.
var csiSeqTilde = map[int]rune{
	1: ui.Home, 2: ui.Insert, 3: ui.Delete, 4: ui.End,
	5: ui.PageUp, 6: ui.PageDown,
	// urxvt
	7: ui.Home, 8: ui.End,
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4,
	15: ui.F5, 17: ui.F6, 18: ui.F7, 19: ui.F8,
	20: ui.F9, 21: ui.F10, 23: ui.F11, 24: ui.F12,
}

// CSI-style sequences of the form ESC [ 27 ; mod ; key ~, sent for some
// keypad keys.
var csiSeqTilde27 = map[int]rune{
	9: ui.Tab, 13: ui.Enter,
	33: '!', 35: '#', 39: '\'', 40: '(', 41: ')', 43: '+', 44: ',', 45: '-',
	46: '.',
	48: '0', 49: '1', 50: '2', 51: '3', 52: '4', 53: '5', 54: '6', 55: '7',
	56: '8', 57: '9',
	58: ':', 59: ';', 60: '<', 61: '=', 62: '>', 63: ';',
}

// parseCSI parses a CSI-style key sequence with the given arguments and final
// byte. It returns ui.NoKey if the sequence is not a known key.
func parseCSI(nums []int, last rune) ui.Key {
	if k, ok := csiSeqByLast[last]; ok {
		switch {
		case len(nums) == 0:
			return k
		case len(nums) == 2 && nums[0] == 1:
			return xtermModify(k, nums[1])
		}
		return ui.NoKey
	}

	switch last {
	case '~':
		switch {
		case len(nums) == 1 || len(nums) == 2:
			r, ok := csiSeqTilde[nums[0]]
			if !ok {
				break
			}
			if len(nums) == 1 {
				return ui.K(r)
			}
			return xtermModify(ui.K(r), nums[1])
		case len(nums) == 3 && nums[0] == 27:
			if r, ok := csiSeqTilde27[nums[2]]; ok {
				return xtermModify(ui.K(r), nums[1])
			}
		}
	case '$', '^', '@':
		if len(nums) != 1 {
			break
		}
		if r, ok := csiSeqTilde[nums[0]]; ok {
			mod := map[rune]ui.Mod{'$': ui.Shift, '^': ui.Ctrl, '@': ui.Shift | ui.Ctrl}[last]
			return ui.K(r, mod)
		}
	}
	return ui.NoKey
}

// xtermModify applies an xterm modifier argument, which is 1 plus a bit set
// of Shift (1), Alt (2), Ctrl (4) and Meta (8). Meta is taken as Alt.
func xtermModify(k ui.Key, mod int) ui.Key {
	if mod < 0 || mod > 16 {
		return ui.NoKey
	}
	if mod == 0 {
		return k
	}
	bits := mod - 1
	if bits&0x1 != 0 {
		k.Mod |= ui.Shift
	}
	if bits&0x2 != 0 || bits&0x8 != 0 {
		k.Mod |= ui.Alt
	}
	if bits&0x4 != 0 {
		k.Mod |= ui.Ctrl
	}
	return k
}

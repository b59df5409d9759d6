// Package wordnav computes word boundaries in a line of bytes.
//
// A word is a maximal run of bytes that are not in the whitespace set. The
// whitespace set is configurable; content is treated as a flat byte sequence,
// so multi-byte characters count as several non-whitespace bytes.
//
// Moving left one word always lands at the beginning of the last word to the
// left of the dot (excluding the dot):
//
//   - If the dot is in the middle of a word, it moves to its beginning.
//
//   - If the dot is already at the beginning of a word, it moves to the
//     beginning of the word before that.
//
//   - If the dot is in a run of whitespace, it moves to the beginning of the
//     word before that run.
//
// Moving right one word lands at the beginning of the first word to the right
// of the dot, skipping the rest of the current word and the whitespace that
// follows it. This matches vi and zsh rather than readline, which stops after
// the end of the word.
package wordnav

// DefaultWhitespace is the whitespace set used when none is configured.
const DefaultWhitespace = " \t"

// Whitespace is a set of bytes treated as word separators.
type Whitespace [256]bool

// NewWhitespace builds a Whitespace set from the bytes of s. An empty s yields
// the default set.
func NewWhitespace(s string) *Whitespace {
	if s == "" {
		s = DefaultWhitespace
	}
	var ws Whitespace
	for i := 0; i < len(s); i++ {
		ws[s[i]] = true
	}
	return &ws
}

// Default is the Whitespace set built from DefaultWhitespace.
var Default = NewWhitespace(DefaultWhitespace)

// Has reports whether b is whitespace.
func (ws *Whitespace) Has(b byte) bool { return ws[b] }

// String returns the bytes in the set in ascending order.
func (ws *Whitespace) String() string {
	var s []byte
	for i, in := range ws {
		if in {
			s = append(s, byte(i))
		}
	}
	return string(s)
}

// PrevBoundary returns the offset of the beginning of the last word to the left
// of dot, or 0 if there is none.
func PrevBoundary(ws *Whitespace, content []byte, dot int) int {
	i := clamp(dot, len(content))
	// Skip whitespace immediately left of the dot.
	for i > 0 && ws.Has(content[i-1]) {
		i--
	}
	// Skip the word.
	for i > 0 && !ws.Has(content[i-1]) {
		i--
	}
	return i
}

// NextBoundary returns the offset of the beginning of the first word to the
// right of dot, or len(content) if there is none.
func NextBoundary(ws *Whitespace, content []byte, dot int) int {
	i := clamp(dot, len(content))
	// Skip the word under or after the dot.
	for i < len(content) && !ws.Has(content[i]) {
		i++
	}
	// Skip the whitespace that follows.
	for i < len(content) && ws.Has(content[i]) {
		i++
	}
	return i
}

// WordAt returns the range [from, to) of the word that contains dot or ends
// right at it. If dot is surrounded by whitespace on both sides, the range is
// empty and equal to [dot, dot).
func WordAt(ws *Whitespace, content []byte, dot int) (from, to int) {
	from = clamp(dot, len(content))
	for from > 0 && !ws.Has(content[from-1]) {
		from--
	}
	to = clamp(dot, len(content))
	for to < len(content) && !ws.Has(content[to]) {
		to++
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

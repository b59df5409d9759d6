// Package complete provides completers for the complete action: a static word
// list, and a client and server for completion over the language server
// protocol.
package complete

import (
	"sort"
	"strings"
)

// Words completes a word from a fixed list of candidates. A word that is the
// prefix of a single candidate completes to that candidate; a word that is the
// prefix of several completes to their longest common prefix, if that is
// longer than the word.
type Words []string

// NewWords returns a sorted copy of the given candidates without duplicates
// and empty strings.
func NewWords(candidates ...string) Words {
	ws := make(Words, 0, len(candidates))
	for _, c := range candidates {
		if c != "" {
			ws = append(ws, c)
		}
	}
	sort.Strings(ws)
	uniq := ws[:0]
	for i, c := range ws {
		if i == 0 || c != ws[i-1] {
			uniq = append(uniq, c)
		}
	}
	return uniq
}

// Candidates returns the candidates that start with word.
func (ws Words) Candidates(word []byte) []string {
	var matches []string
	for _, c := range ws {
		if strings.HasPrefix(c, string(word)) {
			matches = append(matches, c)
		}
	}
	return matches
}

// Complete implements edit.Completer.
func (ws Words) Complete(word []byte) ([]byte, bool) {
	return pick(string(word), ws.Candidates(word))
}

// pick chooses the replacement for word from the candidates that start with
// it.
func pick(word string, matches []string) ([]byte, bool) {
	switch len(matches) {
	case 0:
		return nil, false
	case 1:
		return []byte(matches[0]), true
	}
	prefix := matches[0]
	for _, m := range matches[1:] {
		prefix = commonPrefix(prefix, m)
	}
	if len(prefix) <= len(word) {
		return nil, false
	}
	return []byte(prefix), true
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

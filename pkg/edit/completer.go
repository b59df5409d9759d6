package edit

// Completer expands a partial word. It returns false when there is no
// expansion. It may block; the session waits for it.
type Completer interface {
	Complete(word []byte) ([]byte, bool)
}

// CompleterFunc adapts an ordinary function to a Completer.
type CompleterFunc func(word []byte) ([]byte, bool)

// Complete calls f(word).
func (f CompleterFunc) Complete(word []byte) ([]byte, bool) { return f(word) }

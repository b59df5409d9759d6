package term

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	eraseLine  = "\033[K"
)

// Writer draws a prompt and the line being edited on a single terminal row.
type Writer struct {
	out    io.Writer
	prompt string
}

// NewWriter returns a Writer that writes VT100 sequences to the given
// io.Writer.
func NewWriter(out io.Writer, prompt string) *Writer {
	return &Writer{out, prompt}
}

// Redraw rewrites the current row with the prompt and line, and places the
// cursor at the dot.
func (w *Writer) Redraw(line []byte, dot int) error {
	// Collect the output so that the terminal is written to once.
	output := new(bytes.Buffer)
	// Hide cursor at the beginning to minimize flickering.
	output.WriteString(hideCursor)
	output.WriteString("\r")
	output.WriteString(w.prompt)
	writeCells(output, line)
	output.WriteString(eraseLine)
	if back := width(line[dot:]); back > 0 {
		fmt.Fprintf(output, "\033[%dD", back)
	}
	output.WriteString(showCursor)

	_, err := w.out.Write(output.Bytes())
	return err
}

// Newline moves the cursor to the start of the next row.
func (w *Writer) Newline() error {
	_, err := io.WriteString(w.out, "\r\n")
	return err
}

// Notice writes a message on a row of its own, leaving the cursor at the
// start of the following row.
func (w *Writer) Notice(msg string) error {
	_, err := fmt.Fprintf(w.out, "\r%s%s\r\n", msg, eraseLine)
	return err
}

// writeCells writes the line with control bytes shown in caret notation.
func writeCells(output *bytes.Buffer, line []byte) {
	for _, b := range line {
		switch {
		case b < 0x20:
			output.WriteByte('^')
			output.WriteByte(b + 0x40)
		case b == 0x7f:
			output.WriteString("^?")
		default:
			output.WriteByte(b)
		}
	}
}

// width returns the number of columns the bytes occupy when written by
// writeCells. UTF-8 continuation bytes take no column.
func width(line []byte) int {
	w := 0
	for _, b := range line {
		switch {
		case b < 0x20 || b == 0x7f:
			w += 2
		case b >= 0x80 && !utf8.RuneStart(b):
		default:
			w++
		}
	}
	return w
}

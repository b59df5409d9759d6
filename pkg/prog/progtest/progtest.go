// Package progtest contains utilities for testing prog.Program
// implementations.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"src.teel.sh/pkg/must"
	"src.teel.sh/pkg/prog"
)

// Case is a test case for Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exitCode int
	out, err output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + o.content
	}
	return o.content
}

func (o output) matches(s string) bool {
	if o.partial {
		return strings.Contains(s, o.content)
	}
	return s == o.content
}

// ThatTeel returns a new Case with the specified CLI arguments. The new Case
// expects no output and exit code 0.
func ThatTeel(args ...string) Case {
	return Case{args: append([]string{"teel"}, args...)}
}

// WithStdin returns an altered Case that provides the given input to stdin.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It's useful to mark tests that otherwise don't
// have any expectations.
func (c Case) DoesNothing() Case { return c }

// ExitsWith returns an altered Case that requires the program to return with
// the given exit code.
func (c Case) ExitsWith(code int) Case {
	c.want.exitCode = code
	return c
}

// WritesStdout returns an altered Case that requires the program to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.out = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program to
// write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.out = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.err = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program to
// write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.err = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exitCode != c.want.exitCode {
				t.Errorf("got exit code %v, want %v", r.exitCode, c.want.exitCode)
			}
			if !c.want.out.matches(r.out.content) {
				t.Errorf("got stdout %q, want %s", r.out.content, c.want.out)
			}
			if !c.want.err.matches(r.err.content) {
				t.Errorf("got stderr %q, want %s", r.err.content, c.want.err)
			}
		})
	}
}

// Run runs a Program with the given stdin and arguments, and returns the exit
// code and what was written to stdout and stderr.
func Run(p prog.Program, stdin string, args ...string) (exit int, stdout, stderr string) {
	r := run(p, append([]string{"teel"}, args...), stdin)
	return r.exitCode, r.out.content, r.err.content
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.Pipe()
	// Programs that don't read all of stdin must not block the writer.
	go func() {
		w0.WriteString(stdin)
		w0.Close()
	}()
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()
	// Drain the pipes concurrently, so that a program that writes more than a
	// pipe can buffer does not deadlock.
	outCh, errCh := readAllAsync(r1), readAllAsync(r2)

	exitCode := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()
	return result{exitCode, output{content: <-outCh}, output{content: <-errCh}}
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}

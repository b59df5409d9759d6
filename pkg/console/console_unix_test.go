//go:build !windows && !plan9 && !js

package console

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"

	"src.teel.sh/pkg/config"
	"src.teel.sh/pkg/term"
)

func TestConsole_Terminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()

	restore, err := term.Setup(tty, tty)
	if err != nil {
		t.Fatal(err)
	}
	c, err := Open(config.Default(), tty, tty)
	if err != nil {
		t.Fatal(err)
	}

	outCh := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(ptmx)
		outCh <- string(b)
	}()

	// With signals turned off, Ctrl-C and Ctrl-D arrive as keys.
	ptmx.WriteString("abc\x03\x04")
	if err := c.Loop(); err != nil {
		t.Errorf("Loop -> %v", err)
	}
	if got := c.Session().Buffer().String(); got != "" {
		t.Errorf("line is %q after interrupt", got)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close -> %v", err)
	}
	if err := restore(); err != nil {
		t.Errorf("restore -> %v", err)
	}
	tty.Close()

	select {
	case out := <-outCh:
		for _, want := range []string{"> abc", "^C"} {
			if !strings.Contains(out, want) {
				t.Errorf("output %q does not contain %q", out, want)
			}
		}
	case <-time.After(time.Second):
		t.Errorf("terminal output not closed")
	}
}

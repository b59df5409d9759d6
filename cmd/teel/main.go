// Teel is a line-editing console. It reads keys from a terminal or a telnet
// style byte stream, edits the current line with readline-like bindings and
// history, and hands each submitted line to an audit log and Lua hooks.
package main

import (
	"os"

	"src.teel.sh/pkg/buildinfo"
	"src.teel.sh/pkg/complete"
	"src.teel.sh/pkg/console"
	"src.teel.sh/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program{}, complete.Program{}, console.Program{})))
}

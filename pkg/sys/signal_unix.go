//go:build !windows && !plan9 && !js

package sys

import (
	"os"
	"os/signal"
	"syscall"
)

const sigsChanBufferSize = 16

// SIGWINCH is the window size change signal.
const SIGWINCH = syscall.SIGWINCH

// NotifySignals returns a channel on which the signals that should end or
// redraw a console session are delivered.
func NotifySignals() chan os.Signal {
	sigCh := make(chan os.Signal, sigsChanBufferSize)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, SIGWINCH)
	return sigCh
}

//go:build !windows && !plan9 && !js

package console

import (
	"os"
	"os/signal"
	"syscall"

	"src.teel.sh/pkg/sys"
)

func handleSignals(sigCh <-chan os.Signal, c *Console, tty *os.File) {
	for sig := range sigCh {
		switch sig {
		case syscall.SIGHUP, syscall.SIGTERM:
			logger.Println("stopping on signal", sig)
			c.Stop()
			return
		case sys.SIGWINCH:
			row, col := sys.WinSize(tty)
			logger.Printf("window resized to %dx%d", col, row)
		default:
			logger.Println("ignored signal", sig)
		}
	}
}

func stopSignals(sigCh chan os.Signal) {
	signal.Stop(sigCh)
	close(sigCh)
}

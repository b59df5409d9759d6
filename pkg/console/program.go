// Package console runs the line editor on the standard input and output.
package console

import (
	"os"

	"src.teel.sh/pkg/config"
	"src.teel.sh/pkg/logutil"
	"src.teel.sh/pkg/prog"
	"src.teel.sh/pkg/sys"
	"src.teel.sh/pkg/term"
)

var logger = logutil.GetLogger("[console] ")

// Program is the console subprogram. It is not suitable when
// -complete-server is given.
type Program struct{}

// Run runs the console until the input ends or the user exits.
func (Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if f.CompleteServer {
		return prog.ErrNotSuitable
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not supported")
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	if sys.IsATTY(fds[0].Fd()) {
		restore, err := term.Setup(fds[0], fds[1])
		if err != nil {
			return err
		}
		defer func() {
			if err := restore(); err != nil {
				logger.Println("restore terminal:", err)
			}
		}()
	}

	c, err := Open(cfg, fds[0], fds[1])
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Println("close console:", err)
		}
	}()

	sigCh := sys.NotifySignals()
	defer stopSignals(sigCh)
	go handleSignals(sigCh, c, fds[1])

	return c.Loop()
}

// loadConfig loads the configuration file and applies flag overrides.
func loadConfig(f *prog.Flags) (*config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}
	if f.DB != "" {
		cfg.DB = f.DB
	}
	if f.Script != "" {
		cfg.Script = f.Script
	}
	if f.History != 0 {
		cfg.HistorySize = f.History
	}
	if err := cfg.Validate(); err != nil {
		return nil, prog.BadUsage(err.Error())
	}
	return cfg, nil
}

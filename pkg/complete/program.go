package complete

import (
	"context"
	"os"

	"src.teel.sh/pkg/config"
	"src.teel.sh/pkg/prog"
)

// Program is the completion server subprogram, run with -complete-server. It
// serves the completions of the configuration file over stdin and stdout.
type Program struct{}

// Run serves completions until stdin is closed.
func (Program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.CompleteServer {
		return prog.ErrNotSuitable
	}
	cfg, err := config.Load(f.Config)
	if err != nil {
		return err
	}
	logger.Printf("serving %d completions", len(cfg.Completions))
	return Serve(context.Background(), transport{fds[0], fds[1]}, NewWords(cfg.Completions...))
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}

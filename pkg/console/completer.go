package console

import (
	"context"
	"io"
	"os/exec"

	"src.teel.sh/pkg/complete"
	"src.teel.sh/pkg/config"
	"src.teel.sh/pkg/edit"
	"src.teel.sh/pkg/errutil"
)

// newCompleter returns the completer described by the configuration, and a
// function that releases it. It returns a nil Completer when completion is
// not configured.
func newCompleter(cfg *config.Config) (edit.Completer, func() error, error) {
	switch {
	case len(cfg.CompleteCommand) > 0:
		return startRemote(cfg)
	case len(cfg.Completions) > 0:
		return complete.NewWords(cfg.Completions...), func() error { return nil }, nil
	}
	return nil, nil, nil
}

// startRemote starts the completion server command and talks to it over its
// stdin and stdout.
func startRemote(cfg *config.Config) (edit.Completer, func() error, error) {
	cmd := exec.Command(cfg.CompleteCommand[0], cfg.CompleteCommand[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	logger.Printf("started completion server %q, pid %d", cfg.CompleteCommand, cmd.Process.Pid)

	wait := func() error {
		if err := cmd.Wait(); err != nil {
			logger.Println("completion server:", err)
		}
		return nil
	}
	remote, err := complete.NewRemote(context.Background(),
		pipeConn{stdout, stdin}, cfg.CompleteTimeout)
	if err != nil {
		cmd.Process.Kill()
		wait()
		return nil, nil, err
	}
	closeRemote := func() error {
		return errutil.Multi(remote.Close(), wait())
	}
	return remote, closeRemote, nil
}

// pipeConn joins the two pipes of a child process into one connection.
type pipeConn struct {
	io.ReadCloser
	io.WriteCloser
}

func (c pipeConn) Close() error {
	return errutil.Multi(c.WriteCloser.Close(), c.ReadCloser.Close())
}

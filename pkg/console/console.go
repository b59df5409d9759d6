package console

import (
	"fmt"
	"io"

	"src.teel.sh/pkg/auditlua"
	"src.teel.sh/pkg/config"
	"src.teel.sh/pkg/edit"
	"src.teel.sh/pkg/errutil"
	"src.teel.sh/pkg/linebuf"
	"src.teel.sh/pkg/store"
	"src.teel.sh/pkg/store/storedefs"
	"src.teel.sh/pkg/term"
	"src.teel.sh/pkg/ui"
	"src.teel.sh/pkg/wordnav"
)

// AuditSource is the source of the audit records of submitted lines.
const AuditSource = "console"

// Console couples an editing session with a terminal, and with the optional
// audit store, Lua hooks and completer.
type Console struct {
	session *edit.Session
	reader  *term.Reader
	writer  *term.Writer

	store storedefs.Store
	lua   *auditlua.Runtime

	// Run in reverse order by Close.
	closers []func() error
}

// Open builds a Console from the configuration. Keys are read from in, and
// the line is drawn on out.
func Open(cfg *config.Config, in io.Reader, out io.Writer) (c *Console, err error) {
	c = &Console{}
	defer func() {
		if err != nil {
			err = errutil.Multi(err, c.Close())
			c = nil
		}
	}()

	bindings := edit.DefaultBindings()
	if err := bindings.Apply(cfg.Bindings); err != nil {
		return c, err
	}
	session, err := edit.NewSession(edit.Config{
		HistorySize: cfg.HistorySize,
		Whitespace:  wordnav.NewWhitespace(cfg.Whitespace),
		Allocator:   linebuf.LimitAllocator(cfg.MaxLine),
		Bindings:    bindings,
	})
	if err != nil {
		return c, err
	}
	c.session = session
	c.onClose(func() error { session.Close(); return nil })

	completer, closeCompleter, err := newCompleter(cfg)
	if err != nil {
		return c, fmt.Errorf("completer: %w", err)
	}
	if completer != nil {
		session.SetCompleter(completer)
		c.onClose(closeCompleter)
	}

	if cfg.DB != "" {
		st, err := store.NewStore(cfg.DB)
		if err != nil {
			return c, fmt.Errorf("open %s: %w", cfg.DB, err)
		}
		c.store = st
		c.onClose(st.Close)
	}

	if cfg.Script != "" {
		c.lua = auditlua.New(c.store, out)
		c.onClose(func() error { c.lua.Close(); return nil })
		if err := c.lua.DoFile(cfg.Script); err != nil {
			return c, fmt.Errorf("script %s: %w", cfg.Script, err)
		}
	}

	c.reader = term.NewReader(in)
	c.onClose(func() error { c.reader.Close(); return nil })
	c.writer = term.NewWriter(out, cfg.Prompt)
	logger.Println("console opened")
	return c, nil
}

func (c *Console) onClose(f func() error) {
	c.closers = append(c.closers, f)
}

// Session returns the editing session.
func (c *Console) Session() *edit.Session { return c.session }

// Stop makes a running Loop return.
func (c *Console) Stop() { c.reader.Close() }

// Close releases everything opened by Open.
func (c *Console) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errutil.Multi(errs...)
}

// Loop reads and handles keys until the input ends, Stop is called or an
// action asks to exit.
func (c *Console) Loop() error {
	if err := c.redraw(); err != nil {
		return err
	}
	for {
		k, err := c.reader.ReadKey()
		if err != nil {
			if err == io.EOF || err == term.ErrStopped {
				return c.writer.Newline()
			}
			if term.IsReadErrorRecoverable(err) {
				continue
			}
			return err
		}
		done, err := c.handle(k)
		if err != nil || done {
			return err
		}
	}
}

// handle handles one key. It returns true when the console should exit.
func (c *Console) handle(k ui.Key) (bool, error) {
	sig, err := c.session.Handle(k)
	if c.debug() {
		logger.Printf("key %v -> %v", k, sig)
	}
	if err != nil {
		logger.Printf("key %v: %v", k, err)
	}

	switch sig {
	case edit.Submit:
		return false, c.submit()
	case edit.Terminate:
		return true, c.writer.Newline()
	case edit.EndOfInput:
		if c.session.Buffer().Len() == 0 {
			return true, c.writer.Newline()
		}
	case edit.Interrupted:
		c.session.Discard()
		if err := c.writer.Notice("^C"); err != nil {
			return false, err
		}
	case edit.Suspended:
		logger.Println("suspend requested; ignored")
	case edit.DebugF11Pressed, edit.DebugF12Pressed:
		logger.Printf("%v: line %q", sig, c.session.Buffer().String())
	}
	return false, c.redraw()
}

func (c *Console) submit() error {
	line, err := c.session.Accept()
	if err != nil {
		logger.Println("accept:", err)
		if err := c.writer.Notice("error: " + err.Error()); err != nil {
			return err
		}
		return c.redraw()
	}
	if err := c.writer.Newline(); err != nil {
		return err
	}
	if line == "" {
		return c.redraw()
	}
	if c.store != nil {
		if _, err := c.store.AddRecord(AuditSource, line); err != nil {
			logger.Println("audit:", err)
		}
	}
	if c.lua != nil {
		if err := c.lua.OnSubmit(line); err != nil {
			logger.Println("on_submit:", err)
			if err := c.writer.Notice("error: " + err.Error()); err != nil {
				return err
			}
		}
	}
	return c.redraw()
}

func (c *Console) redraw() error {
	buf := c.session.Buffer()
	return c.writer.Redraw(buf.Bytes(), buf.Dot())
}

func (c *Console) debug() bool { return c.lua != nil && c.lua.Debug() }

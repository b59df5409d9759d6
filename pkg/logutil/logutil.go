// Package logutil provides logging utilities.
//
// All loggers write to a shared destination that is discarded until SetOutput
// or SetOutputFile is called, so that debug logging costs nothing in a normal
// session.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	current *os.File
	loggers []*log.Logger
)

// GetLogger gets a logger with the given prefix.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(out, prefix, log.LstdFlags|log.Lmicroseconds)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to the
// new io.Writer. If the old output was a file opened by SetOutputFile, it is
// closed.
func SetOutput(newout io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	setOutput(newout, nil)
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file. The file is truncated. If fname is empty, logs are
// discarded.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	setOutput(file, file)
	return nil
}

func setOutput(newout io.Writer, file *os.File) {
	if current != nil {
		current.Close()
	}
	out, current = newout, file
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

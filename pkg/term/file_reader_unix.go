//go:build !windows && !plan9 && !js

package term

import (
	"io"
	"os"
	"sync"
	"syscall"
	"time"

	"src.teel.sh/pkg/sys/eunix"
)

// Reads bytes from a file, waiting on the file together with a stop pipe.
type fileReader struct {
	file  *os.File
	rStop *os.File
	wStop *os.File
	// Held while a read is in progress.
	mutex  sync.Mutex
	closed bool
}

func newFileReader(file *os.File) (*fileReader, error) {
	rStop, wStop, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &fileReader{file: file, rStop: rStop, wStop: wStop}, nil
}

func (r *fileReader) ReadByteWithTimeout(timeout time.Duration) (byte, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.closed {
		return 0, ErrStopped
	}
	for {
		ready, err := eunix.WaitForRead(timeout, r.file, r.rStop)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			return 0, err
		}
		if ready[1] {
			return 0, ErrStopped
		}
		if !ready[0] {
			return 0, errTimeout
		}
		var b [1]byte
		nr, err := r.file.Read(b[:])
		if err != nil {
			return 0, err
		}
		if nr != 1 {
			return 0, io.ErrNoProgress
		}
		return b[0], nil
	}
}

// Close wakes up any outstanding read, waits for it to return and releases
// the stop pipe.
func (r *fileReader) Close() {
	r.wStop.Write([]byte{'q'})
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.closed = true
	r.rStop.Close()
	r.wStop.Close()
}

package term

import (
	"bufio"
	"io"
	"time"
)

type byteResult struct {
	b   byte
	err error
}

// Reads bytes from an arbitrary io.Reader in a separate goroutine, so that a
// read can time out in the middle of an escape sequence. The goroutine exits
// after the underlying reader returns an error, or after Close once its
// pending read returns.
type pipeReader struct {
	bytes chan byteResult
	stop  chan struct{}
}

func newPipeReader(r io.Reader) *pipeReader {
	pr := &pipeReader{bytes: make(chan byteResult), stop: make(chan struct{})}
	go pr.pump(bufio.NewReader(r))
	return pr
}

func (pr *pipeReader) pump(br *bufio.Reader) {
	for {
		b, err := br.ReadByte()
		select {
		case pr.bytes <- byteResult{b, err}:
		case <-pr.stop:
			return
		}
		if err != nil {
			return
		}
	}
}

func (pr *pipeReader) ReadByteWithTimeout(timeout time.Duration) (byte, error) {
	var timeoutCh <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}
	select {
	case r := <-pr.bytes:
		return r.b, r.err
	case <-timeoutCh:
		return 0, errTimeout
	case <-pr.stop:
		return 0, ErrStopped
	}
}

func (pr *pipeReader) Close() { close(pr.stop) }

//go:build windows || plan9 || js

package term

import (
	"errors"
	"os"
	"time"
)

type fileReader struct{}

func newFileReader(*os.File) (*fileReader, error) {
	return nil, errors.New("waiting on files is not supported")
}

func (*fileReader) ReadByteWithTimeout(time.Duration) (byte, error) {
	return 0, ErrStopped
}

func (*fileReader) Close() {}

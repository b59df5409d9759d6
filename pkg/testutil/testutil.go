// Package testutil contains common test utilities.
package testutil

import (
	"os"
	"path/filepath"
)

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type Cleanuper interface {
	Cleanup(func())
}

// TempDirer is the subset of [testing.TB] used by [TempFile].
type TempDirer interface {
	TempDir() string
}

// TempFile returns the path of a file named name inside a fresh temporary
// directory with symlinks resolved. The file is not created.
func TempFile(t TempDirer, name string) string {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		panic(err)
	}
	return filepath.Join(dir, name)
}

// Setenv sets the value of an environment variable for the duration of a test.
func Setenv(c Cleanuper, name, value string) {
	oldValue, existed := os.LookupEnv(name)
	if existed {
		c.Cleanup(func() { os.Setenv(name, oldValue) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
	os.Setenv(name, value)
}

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSet(t *testing.T) {
	x := 1
	t.Run("inner", func(t *testing.T) {
		Set(t, &x, 2)
		if x != 2 {
			t.Errorf("x = %d, want 2", x)
		}
	})
	if x != 1 {
		t.Errorf("x = %d after cleanup, want 1", x)
	}
}

func TestTempFile(t *testing.T) {
	name := TempFile(t, "a.db")
	if filepath.Base(name) != "a.db" {
		t.Errorf("TempFile -> %q, want base a.db", name)
	}
	if _, err := os.Stat(filepath.Dir(name)); err != nil {
		t.Errorf("directory of TempFile does not exist: %v", err)
	}
}

func TestSetenv(t *testing.T) {
	const name = "TEEL_TESTUTIL_VAR"
	os.Unsetenv(name)
	t.Run("inner", func(t *testing.T) {
		Setenv(t, name, "v")
		if got := os.Getenv(name); got != "v" {
			t.Errorf("$%s = %q, want v", name, got)
		}
	})
	if _, ok := os.LookupEnv(name); ok {
		t.Errorf("$%s still set after cleanup", name)
	}
}

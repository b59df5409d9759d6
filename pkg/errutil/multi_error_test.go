package errutil

import (
	"errors"
	"testing"
)

var (
	err1 = errors.New("error 1")
	err2 = errors.New("error 2")
	err3 = errors.New("error 3")
)

func TestMulti(t *testing.T) {
	if Multi() != nil {
		t.Errorf("Multi() -> non-nil")
	}
	if Multi(nil, nil) != nil {
		t.Errorf("Multi(nil, nil) -> non-nil")
	}
	if err := Multi(err1, nil); err != err1 {
		t.Errorf("Multi(err1, nil) -> %v, want err1", err)
	}

	err := Multi(Multi(err1, err2), err3)
	want := "multiple errors: error 1; error 2; error 3"
	if err.Error() != want {
		t.Errorf("Multi(...).Error() -> %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, err2) {
		t.Errorf("errors.Is(multi, err2) -> false")
	}
	if errors.Is(Multi(err1, err3), err2) {
		t.Errorf("errors.Is(Multi(err1, err3), err2) -> true")
	}
}

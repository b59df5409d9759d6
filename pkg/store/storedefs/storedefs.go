// Package storedefs contains definitions of the audit store API.
//
// It is a separate package so that packages that only depend on the store API
// do not need to depend on the concrete implementation.
package storedefs

import (
	"errors"
	"time"
)

// ErrNoMatchingRecord is returned when a query completes with no result.
var ErrNoMatchingRecord = errors.New("no matching record")

// ErrNoVar is returned by SharedVar when there is no such variable.
var ErrNoVar = errors.New("no such variable")

// Store is an interface satisfied by the audit store.
type Store interface {
	NextSeq() (int, error)
	AddRecord(source, text string) (int, error)
	DelRecord(seq int) error
	Record(seq int) (Record, error)
	Records(from, upto int) ([]Record, error)
	NextRecord(from int, source string) (Record, error)
	PrevRecord(upto int, source string) (Record, error)
	Count() (int, error)
	Sources() ([]string, error)

	SharedVar(name string) (string, error)
	SetSharedVar(name, value string) error
	DelSharedVar(name string) error
}

// Record is an entry in the audit log.
type Record struct {
	Seq    int       `json:"seq"`
	Source string    `json:"source"`
	Time   time.Time `json:"time"`
	Text   string    `json:"text"`
}

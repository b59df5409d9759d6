// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"src.teel.sh/pkg/store/storedefs"
)

var (
	records = []struct{ source, text string }{
		{"console", "help"},
		{"lua", "script started"},
		{"console", "plot 1 2"},
		{"console", ""},
		{"lua", "done"},
	}
	ignoreTime = cmpopts.IgnoreFields(storedefs.Record{}, "Time")
)

func want(seq int) storedefs.Record {
	r := records[seq-1]
	return storedefs.Record{Seq: seq, Source: r.source, Text: r.text}
}

// TestAudit tests the audit log functionality of a Store.
func TestAudit(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextSeq() -> %v, %v, want 1, nil", startSeq, err)
	}

	// AddRecord
	for i, r := range records {
		wantSeq := startSeq + i
		seq, err := store.AddRecord(r.source, r.text)
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddRecord(%q, %q) -> %v, %v, want %v, nil",
				r.source, r.text, seq, err, wantSeq)
		}
	}

	endSeq, err := store.NextSeq()
	wantEndSeq := startSeq + len(records)
	if endSeq != wantEndSeq || err != nil {
		t.Errorf("store.NextSeq() -> %v, %v, want %v, nil",
			endSeq, err, wantEndSeq)
	}

	// Record
	for i := range records {
		seq := startSeq + i
		r, err := store.Record(seq)
		if diff := cmp.Diff(want(seq), r, ignoreTime); diff != "" || err != nil {
			t.Errorf("store.Record(%v) -> error %v, diff (-want +got):\n%s", seq, err, diff)
		}
		if r.Time.IsZero() {
			t.Errorf("store.Record(%v) has zero time", seq)
		}
	}
	if _, err := store.Record(endSeq); err != storedefs.ErrNoMatchingRecord {
		t.Errorf("store.Record(%v) -> error %v, want ErrNoMatchingRecord", endSeq, err)
	}

	// Records
	rs, err := store.Records(2, 4)
	wantRs := []storedefs.Record{want(2), want(3)}
	if diff := cmp.Diff(wantRs, rs, ignoreTime); diff != "" || err != nil {
		t.Errorf("store.Records(2, 4) -> error %v, diff (-want +got):\n%s", err, diff)
	}

	// NextRecord and PrevRecord
	for _, test := range []struct {
		name    string
		f       func(int, string) (storedefs.Record, error)
		seq     int
		source  string
		wantSeq int
	}{
		{"NextRecord", store.NextRecord, 1, "lua", 2},
		{"NextRecord", store.NextRecord, 3, "lua", 5},
		{"NextRecord", store.NextRecord, 3, "", 3},
		{"NextRecord", store.NextRecord, 6, "", 0},
		{"NextRecord", store.NextRecord, 1, "web", 0},
		{"PrevRecord", store.PrevRecord, 6, "console", 4},
		{"PrevRecord", store.PrevRecord, 4, "console", 3},
		{"PrevRecord", store.PrevRecord, 100, "", 5},
		{"PrevRecord", store.PrevRecord, 2, "lua", 0},
		{"PrevRecord", store.PrevRecord, 1, "", 0},
	} {
		r, err := test.f(test.seq, test.source)
		if test.wantSeq == 0 {
			if err != storedefs.ErrNoMatchingRecord {
				t.Errorf("store.%s(%d, %q) -> (%v, %v), want ErrNoMatchingRecord",
					test.name, test.seq, test.source, r, err)
			}
			continue
		}
		if diff := cmp.Diff(want(test.wantSeq), r, ignoreTime); diff != "" || err != nil {
			t.Errorf("store.%s(%d, %q) -> error %v, diff (-want +got):\n%s",
				test.name, test.seq, test.source, err, diff)
		}
	}

	// Count and Sources
	if n, err := store.Count(); n != len(records) || err != nil {
		t.Errorf("store.Count() -> %v, %v, want %v, nil", n, err, len(records))
	}
	sources, err := store.Sources()
	if diff := cmp.Diff([]string{"console", "lua"}, sources); diff != "" || err != nil {
		t.Errorf("store.Sources() -> error %v, diff (-want +got):\n%s", err, diff)
	}

	// DelRecord
	if err := store.DelRecord(3); err != nil {
		t.Errorf("store.DelRecord(3) -> %v, want nil", err)
	}
	if _, err := store.Record(3); err != storedefs.ErrNoMatchingRecord {
		t.Errorf("store.Record(3) after deletion -> error %v, want ErrNoMatchingRecord", err)
	}
	if r, err := store.PrevRecord(4, "console"); r.Seq != 1 || err != nil {
		t.Errorf("store.PrevRecord(4, console) after deletion -> (%v, %v), want seq 1", r, err)
	}
	if err := store.DelRecord(3); err != nil {
		t.Errorf("deleting a deleted record -> %v, want nil", err)
	}
	if n, _ := store.Count(); n != len(records)-1 {
		t.Errorf("store.Count() after deletion -> %v, want %v", n, len(records)-1)
	}
	// Sequence numbers are not reused.
	if seq, _ := store.NextSeq(); seq != wantEndSeq {
		t.Errorf("store.NextSeq() after deletion -> %v, want %v", seq, wantEndSeq)
	}
}

// TestSharedVar tests the shared variable functionality of a Store.
func TestSharedVar(t *testing.T, store storedefs.Store) {
	varname := "foo"
	value1 := "lorem ipsum"
	value2 := "o mores, o tempora"

	// Getting a nonexistent variable should return ErrNoVar.
	_, err := store.SharedVar(varname)
	if err != storedefs.ErrNoVar {
		t.Error("want ErrNoVar, got", err)
	}

	// Setting a variable for the first time creates it.
	if err := store.SetSharedVar(varname, value1); err != nil {
		t.Error("want no error, got", err)
	}
	v, err := store.SharedVar(varname)
	if v != value1 || err != nil {
		t.Errorf("want %q and no error, got %q and %v", value1, v, err)
	}

	// Setting an existing variable updates its value.
	if err := store.SetSharedVar(varname, value2); err != nil {
		t.Error("want no error, got", err)
	}
	v, err = store.SharedVar(varname)
	if v != value2 || err != nil {
		t.Errorf("want %q and no error, got %q and %v", value2, v, err)
	}

	// After deleting a variable, access to it cause ErrNoVar.
	if err := store.DelSharedVar(varname); err != nil {
		t.Error("want no error, got", err)
	}
	_, err = store.SharedVar(varname)
	if err != storedefs.ErrNoVar {
		t.Error("want ErrNoVar, got", err)
	}
}

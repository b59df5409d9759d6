package store_test

import (
	"path/filepath"
	"testing"

	"src.teel.sh/pkg/store"
	"src.teel.sh/pkg/store/storedefs"
	"src.teel.sh/pkg/store/storetest"
)

func TestAudit(t *testing.T) {
	st, cleanup := store.MustGetTempStore()
	defer cleanup()
	storetest.TestAudit(t, st)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	st, err := store.NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddRecord("console", "kept"); err != nil {
		t.Fatal(err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	st, err = store.NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	r, err := st.Record(1)
	if err != nil || r.Text != "kept" {
		t.Errorf("Record(1) after reopening -> (%v, %v)", r, err)
	}
	seq, err := st.NextSeq()
	if seq != 2 || err != nil {
		t.Errorf("NextSeq after reopening -> (%v, %v), want (2, nil)", seq, err)
	}
}

func TestNewStore_BadPath(t *testing.T) {
	_, err := store.NewStore(filepath.Join(t.TempDir(), "no", "such", "dir", "db"))
	if err == nil {
		t.Errorf("NewStore in missing directory succeeded")
	}
}

var _ storedefs.Store = store.DBStore(nil)

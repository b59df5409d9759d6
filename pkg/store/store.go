// Package store implements the audit store on top of a bbolt database.
package store

import (
	"time"

	bolt "go.etcd.io/bbolt"

	"src.teel.sh/pkg/logutil"
	. "src.teel.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

// Bucket names.
const (
	bucketAudit     = "audit"
	bucketSharedVar = "shared_var"
)

// initDB keeps the functions that set up a fresh database, keyed by a
// description for error messages.
var initDB = map[string]func(*bolt.Tx) error{}

// DBStore is the permanent storage backend for the audit log.
type DBStore interface {
	Store
	Close() error
}

type dbStore struct {
	db  *bolt.DB
	now func() time.Time
}

// NewStore opens or creates the database at dbname.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	st := &dbStore{db: db, now: time.Now}
	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				logger.Printf("failed to %s: %v", name, err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the database.
func (s *dbStore) Close() error {
	logger.Println("closing store")
	return s.db.Close()
}

package store

import (
	"encoding/json"
	"sort"

	bolt "go.etcd.io/bbolt"

	"src.teel.sh/pkg/endian"
	. "src.teel.sh/pkg/store/storedefs"
)

func init() {
	initDB["initialize audit table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketAudit))
		return err
	}
}

// NextSeq returns the sequence number that the next record will get.
func (s *dbStore) NextSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAudit))
		seq = b.Sequence() + 1
		return nil
	})
	return int(seq), err
}

// AddRecord appends a record to the audit log and returns its sequence
// number.
func (s *dbStore) AddRecord(source, text string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAudit))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		v, err := json.Marshal(Record{
			Seq: int(seq), Source: source, Time: s.now().UTC(), Text: text})
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), v)
	})
	if err != nil {
		logger.Printf("failed to add record from %s: %v", source, err)
	}
	return int(seq), err
}

// DelRecord deletes the record with the given sequence number. Deleting a
// record that doesn't exist is not an error.
func (s *dbStore) DelRecord(seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAudit))
		return b.Delete(marshalSeq(uint64(seq)))
	})
}

// Record returns the record with the given sequence number.
func (s *dbStore) Record(seq int) (Record, error) {
	var r Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAudit))
		v := b.Get(marshalSeq(uint64(seq)))
		if v == nil {
			return ErrNoMatchingRecord
		}
		return json.Unmarshal(v, &r)
	})
	return r, err
}

// iterateRecords calls f with each record in [from, upto) in order.
func (s *dbStore) iterateRecords(from, upto int, f func(Record)) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAudit))
		c := b.Cursor()
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil && unmarshalSeq(k) < uint64(upto); k, v = c.Next() {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			f(r)
		}
		return nil
	})
}

// Records returns all records with sequence numbers in [from, upto).
func (s *dbStore) Records(from, upto int) ([]Record, error) {
	var records []Record
	err := s.iterateRecords(from, upto, func(r Record) {
		records = append(records, r)
	})
	return records, err
}

// NextRecord finds the first record at or after from whose source is source.
// An empty source matches all records.
func (s *dbStore) NextRecord(from int, source string) (Record, error) {
	var r Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAudit))
		c := b.Cursor()
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil; k, v = c.Next() {
			if ok, err := decodeMatching(v, source, &r); ok || err != nil {
				return err
			}
		}
		return ErrNoMatchingRecord
	})
	return r, err
}

// PrevRecord finds the last record before upto whose source is source. An
// empty source matches all records.
func (s *dbStore) PrevRecord(upto int, source string) (Record, error) {
	var r Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAudit))
		c := b.Cursor()

		var v []byte
		k, _ := c.Seek(marshalSeq(uint64(upto)))
		if k == nil { // upto > LAST
			k, v = c.Last()
			if k == nil {
				return ErrNoMatchingRecord
			}
		} else {
			k, v = c.Prev()
		}

		for ; k != nil; k, v = c.Prev() {
			if ok, err := decodeMatching(v, source, &r); ok || err != nil {
				return err
			}
		}
		return ErrNoMatchingRecord
	})
	return r, err
}

func decodeMatching(v []byte, source string, r *Record) (bool, error) {
	var candidate Record
	if err := json.Unmarshal(v, &candidate); err != nil {
		return false, err
	}
	if source != "" && candidate.Source != source {
		return false, nil
	}
	*r = candidate
	return true, nil
}

// Count returns the number of records.
func (s *dbStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketAudit)).Stats().KeyN
		return nil
	})
	return n, err
}

// Sources returns the distinct sources of all records, sorted.
func (s *dbStore) Sources() ([]string, error) {
	seen := map[string]struct{}{}
	err := s.iterateRecords(0, int(^uint(0)>>1), func(r Record) {
		seen[r.Source] = struct{}{}
	})
	if err != nil {
		return nil, err
	}
	sources := make([]string, 0, len(seen))
	for source := range seen {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources, nil
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	endian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return endian.Uint64(key)
}

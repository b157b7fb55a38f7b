package store

import (
	"github.com/cockroachdb/errors"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("results")

type boltStore struct {
	db *bbolt.DB
}

func openBbolt(path string) (*boltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening bbolt %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating bucket")
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Put(runID string, seq uint64, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(encodeKey(runID, seq), value)
	})
}

func (s *boltStore) List() ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		// bbolt 커서는 키 순서로 돈다.
		for k, v := c.First(); k != nil; k, v = c.Next() {
			e, err := decodeEntry(k, v)
			if err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

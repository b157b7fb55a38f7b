package store

import (
	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/badger/v3"
)

type badgerStore struct {
	db *badger.DB
}

func openBadger(dir string) (*badgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger %s", dir)
	}
	return &badgerStore{db: db}, nil
}

func (s *badgerStore) Put(runID string, seq uint64, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeKey(runID, seq), value)
	})
}

func (s *badgerStore) List() ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			e, err := decodeEntry(item.Key(), value)
			if err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}

package store

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

type pebbleStore struct {
	db *pebble.DB
}

func openPebble(dir string) (*pebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "opening pebble %s", dir)
	}
	return &pebbleStore{db: db}, nil
}

func (s *pebbleStore) Put(runID string, seq uint64, value []byte) error {
	return s.db.Set(encodeKey(runID, seq), value, pebble.Sync)
}

func (s *pebbleStore) List() (_ []Entry, err error) {
	it, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "creating iterator")
	}
	defer func() {
		err = errors.CombineErrors(err, it.Close())
	}()

	var out []Entry
	for it.First(); it.Valid(); it.Next() {
		e, err := decodeEntry(it.Key(), it.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *pebbleStore) Close() error {
	return s.db.Close()
}

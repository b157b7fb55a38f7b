// Package store 는 벤치마크 결과 이력을 키-값 저장소에 보관한다.
// bbolt, BadgerDB, PebbleDB 와 메모리 구현이 같은 인터페이스를 따른다.
package store

import (
	"bytes"
	"encoding/binary"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
)

// 저장소 종류
const (
	KindMemory = "memory"
	KindBbolt  = "bbolt"
	KindBadger = "badger"
	KindPebble = "pebble"
)

// ErrUnknownKind 지원하지 않는 저장소 종류
var ErrUnknownKind = errors.New("unknown store kind")

// Entry 저장된 레코드 하나
type Entry struct {
	RunID string
	Seq   uint64
	Value []byte
}

// Store 결과 이력 저장소. 키 순서(runID, seq)로 나열된다.
type Store interface {
	Put(runID string, seq uint64, value []byte) error
	List() ([]Entry, error)
	Close() error
}

// Kinds 지원하는 저장소 종류
func Kinds() []string {
	return []string{KindMemory, KindBbolt, KindBadger, KindPebble}
}

// Open kind 에 맞는 저장소를 path 에 연다. memory 는 path 를 쓰지 않는다.
func Open(kind, path string) (Store, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindBbolt:
		return openBbolt(path)
	case KindBadger:
		return openBadger(path)
	case KindPebble:
		return openPebble(path)
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "store kind %q (known: %v)", kind, Kinds())
	}
}

// encodeKey runID + '/' + 빅엔디언 seq. 같은 run 안에서 seq 순으로 정렬된다.
func encodeKey(runID string, seq uint64) []byte {
	key := make([]byte, 0, len(runID)+9)
	key = append(key, runID...)
	key = append(key, '/')
	return binary.BigEndian.AppendUint64(key, seq)
}

func decodeKey(key []byte) (string, uint64, error) {
	if len(key) < 9 || key[len(key)-9] != '/' {
		return "", 0, errors.Newf("malformed key %x", key)
	}
	return string(key[:len(key)-9]), binary.BigEndian.Uint64(key[len(key)-8:]), nil
}

func decodeEntry(key, value []byte) (Entry, error) {
	runID, seq, err := decodeKey(key)
	if err != nil {
		return Entry{}, err
	}
	return Entry{RunID: runID, Seq: seq, Value: bytes.Clone(value)}, nil
}

// Memory 프로세스 안에서만 유지되는 저장소
type Memory struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemory 빈 메모리 저장소
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

func (m *Memory) Put(runID string, seq uint64, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[string(encodeKey(runID, seq))] = Entry{RunID: runID, Seq: seq, Value: bytes.Clone(value)}
	return nil
}

func (m *Memory) List() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.entries[k])
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }

package chain

import (
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
)

// Storage abstracts the per-contract key-value namespace. Values are
// RLP-encoded; iteration visits keys in ascending byte order.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
	KVIteratePrefix(prefix []byte, fn func(key, value []byte) bool) error
}

// MemKV is an in-memory store with snapshot/revert support. The host takes a
// snapshot at every transaction and submessage boundary so that a failing
// call tree can be rolled back atomically.
type MemKV struct {
	mu        sync.RWMutex
	data      map[string][]byte
	snapshots []map[string][]byte
}

// NewMemKV returns an empty in-memory store.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

func (m *MemKV) KVPut(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = encoded
	return nil
}

func (m *MemKV) KVGet(key []byte, out interface{}) (bool, error) {
	m.mu.RLock()
	encoded, ok := m.data[string(key)]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(encoded, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemKV) KVDelete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *MemKV) KVIteratePrefix(prefix []byte, fn func(key, value []byte) bool) error {
	m.mu.RLock()
	keys := make([]string, 0)
	for k := range m.data {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	for _, k := range keys {
		m.mu.RLock()
		v, ok := m.data[k]
		m.mu.RUnlock()
		if !ok {
			continue
		}
		if !fn([]byte(k), v) {
			return nil
		}
	}
	return nil
}

// Snapshot records the current state. Each call pushes one revert point.
func (m *MemKV) Snapshot() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		copied[k] = v
	}
	m.snapshots = append(m.snapshots, copied)
	return len(m.snapshots) - 1
}

// RevertTo restores the state captured by Snapshot and discards all
// snapshots taken after it.
func (m *MemKV) RevertTo(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 0 || id >= len(m.snapshots) {
		return
	}
	m.data = m.snapshots[id]
	m.snapshots = m.snapshots[:id]
}

// Commit discards the snapshot without restoring it.
func (m *MemKV) Commit(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 0 || id >= len(m.snapshots) {
		return
	}
	m.snapshots = m.snapshots[:id]
}

// prefixStore gives each contract instance an isolated namespace within the
// shared store.
type prefixStore struct {
	prefix []byte
	inner  *MemKV
}

// NewPrefixStore wraps the store so every key is namespaced under prefix.
func NewPrefixStore(inner *MemKV, prefix []byte) Storage {
	owned := append([]byte(nil), prefix...)
	return &prefixStore{prefix: owned, inner: inner}
}

func (p *prefixStore) wrap(key []byte) []byte {
	buf := make([]byte, len(p.prefix)+len(key))
	copy(buf, p.prefix)
	copy(buf[len(p.prefix):], key)
	return buf
}

func (p *prefixStore) KVGet(key []byte, out interface{}) (bool, error) {
	return p.inner.KVGet(p.wrap(key), out)
}

func (p *prefixStore) KVPut(key []byte, value interface{}) error {
	return p.inner.KVPut(p.wrap(key), value)
}

func (p *prefixStore) KVDelete(key []byte) error {
	return p.inner.KVDelete(p.wrap(key))
}

func (p *prefixStore) KVIteratePrefix(prefix []byte, fn func(key, value []byte) bool) error {
	return p.inner.KVIteratePrefix(p.wrap(prefix), func(key, value []byte) bool {
		return fn(key[len(p.prefix):], value)
	})
}

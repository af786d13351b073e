// Package kv holds the in-memory implementation of core.Storage.
package kv

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lborres/wanderauth/core"
)

// MemoryStorage keeps records in a map. Values are copied on the way in and
// out so callers never share backing arrays with the store.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string][]byte

	// counters
	reads   int64
	writes  int64
	deletes int64
}

var _ core.Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string][]byte)}
}

// Stats are simple counters for diagnostics.
type Stats struct {
	Reads   int64 `json:"reads"`
	Writes  int64 `json:"writes"`
	Deletes int64 `json:"deletes"`
	Size    int   `json:"size"`
}

func (m *MemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	atomic.AddInt64(&m.reads, 1)
	value, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, value...), nil
}

func (m *MemoryStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	atomic.AddInt64(&m.writes, 1)
	m.records[key] = append([]byte{}, value...)
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, existed := m.records[key]; existed {
		delete(m.records, key)
		atomic.AddInt64(&m.deletes, 1)
	}
	return nil
}

// Len returns the number of stored keys
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MemoryStorage) Stats() Stats {
	return Stats{
		Reads:   atomic.LoadInt64(&m.reads),
		Writes:  atomic.LoadInt64(&m.writes),
		Deletes: atomic.LoadInt64(&m.deletes),
		Size:    m.Len(),
	}
}

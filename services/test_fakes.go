package services

import (
	"context"
	"sync"

	"github.com/lborres/wanderauth/core"
)

// FakeStorage is a test-only fake implementing core.Storage.
// It stores records in a map and exposes error fields for behavior injection.
type FakeStorage struct {
	records   map[string][]byte
	mu        sync.RWMutex
	getErr    error
	setErr    error
	deleteErr error

	// setErrKey limits setErr to one key when non-empty
	setErrKey string
}

var _ core.Storage = (*FakeStorage)(nil)

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		records: make(map[string][]byte),
	}
}

func (f *FakeStorage) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.records[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, v...), nil
}

func (f *FakeStorage) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil && (f.setErrKey == "" || f.setErrKey == key) {
		return f.setErr
	}
	f.records[key] = append([]byte{}, value...)
	return nil
}

func (f *FakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, key)
	return nil
}

// Put seeds a raw record, bypassing injected errors.
func (f *FakeStorage) Put(key string, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[key] = []byte(value)
}

// Raw returns a stored record and whether it exists.
func (f *FakeStorage) Raw(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.records[key]
	return string(v), ok
}

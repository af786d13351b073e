package core

import "context"

// Storage is the key-value medium the store persists to.
//
// Get returns (nil, nil) when the key is absent. Deleting an absent key is
// not an error.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// StorageCloser is implemented by adapters holding connections or files.
type StorageCloser interface {
	Storage
	Close() error
}

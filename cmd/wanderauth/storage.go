package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lborres/wanderauth/adapters/afs"
	"github.com/lborres/wanderauth/adapters/pgx"
	"github.com/lborres/wanderauth/adapters/sqlite"
	"github.com/lborres/wanderauth/core"
	"github.com/lborres/wanderauth/pkg/config"
	"github.com/lborres/wanderauth/pkg/kv"
)

// memoryStorage lets the in-process map stand in where a closer is expected.
type memoryStorage struct {
	*kv.MemoryStorage
}

func (memoryStorage) Close() error { return nil }

func openStorage(ctx context.Context, cfg config.StorageConfig) (core.StorageCloser, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.DriverMemory:
		return memoryStorage{kv.NewMemoryStorage()}, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverAFS:
		return afs.New(cfg.AFSURL), nil
	case config.DriverPostgres:
		store, err := pgx.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownStorage, cfg.Driver)
	}
}

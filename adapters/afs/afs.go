// Package afs keeps one object per record under a base URL, on any storage
// viant/afs understands (local files, memory, cloud buckets).
package afs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/lborres/wanderauth/core"
)

const objectMode os.FileMode = 0o644

type Adapter struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

var _ core.StorageCloser = (*Adapter)(nil)

func New(baseURL string, options ...storage.Option) *Adapter {
	return &Adapter{
		fs:      afs.New(),
		baseURL: strings.TrimRight(baseURL, "/"),
		options: options,
	}
}

// URL returns the object location of key.
func (a *Adapter) URL(key string) string {
	return url.Join(a.baseURL, objectName(key))
}

func (a *Adapter) Get(ctx context.Context, key string) ([]byte, error) {
	location := a.URL(key)
	exists, err := a.fs.Exists(ctx, location, a.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", location, err)
	}
	if !exists {
		return nil, nil
	}

	data, err := a.fs.DownloadWithURL(ctx, location, a.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", location, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (a *Adapter) Set(ctx context.Context, key string, value []byte) error {
	location := a.URL(key)
	if err := a.fs.Upload(ctx, location, objectMode, bytes.NewReader(value), a.options...); err != nil {
		return fmt.Errorf("failed to upload %s: %w", location, err)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, key string) error {
	location := a.URL(key)
	exists, err := a.fs.Exists(ctx, location, a.options...)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", location, err)
	}
	if !exists {
		return nil
	}
	if err := a.fs.Delete(ctx, location, a.options...); err != nil {
		return fmt.Errorf("failed to delete %s: %w", location, err)
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.fs.Close(a.baseURL)
}

// objectName maps a key to a file-safe name. Bytes outside [A-Za-z0-9._-]
// are written as ~xx.
func objectName(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "~%02x", c)
		}
	}
	return b.String() + ".json"
}

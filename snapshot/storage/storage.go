// Package storage opens the simpleblob backend for a snapshot directory.
package storage

import (
	"context"
	"os"
	"sync"

	"github.com/PowerDNS/simpleblob"
	"github.com/pkg/errors"

	"github.com/PowerDNS/snapshots/config"

	// Register storage backends
	_ "github.com/PowerDNS/simpleblob/backends/fs"
	_ "github.com/PowerDNS/simpleblob/backends/memory"
)

// Open returns the backend for a snapshot directory. For the fs backend the
// directory becomes the root_path. The fs backend creates its directory when
// opened, so it is only opened once the directory exists or a snapshot is
// stored. Until then the directory reads as empty.
func Open(ctx context.Context, sc config.Storage, directory string) (simpleblob.Interface, error) {
	options := make(map[string]interface{}, len(sc.Options)+1)
	for k, v := range sc.Options {
		options[k] = v
	}
	if sc.Type != config.DefaultStorageType {
		return open(ctx, sc.Type, options, directory)
	}
	options["root_path"] = directory
	return &lazyFS{
		dir: directory,
		open: func(ctx context.Context) (simpleblob.Interface, error) {
			return open(ctx, sc.Type, options, directory)
		},
	}, nil
}

func open(ctx context.Context, typ string, options map[string]interface{}, directory string) (simpleblob.Interface, error) {
	st, err := simpleblob.GetBackend(ctx, typ, options)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s storage for %s", typ, directory)
	}
	return st, nil
}

// lazyFS defers opening the fs backend until the directory exists or a
// blob is stored.
type lazyFS struct {
	dir  string
	open func(ctx context.Context) (simpleblob.Interface, error)

	mu sync.Mutex
	st simpleblob.Interface
}

// backend returns nil without an error if the directory does not exist and
// create is not set.
func (b *lazyFS) backend(ctx context.Context, create bool) (simpleblob.Interface, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.st != nil {
		return b.st, nil
	}
	if !create {
		_, err := os.Stat(b.dir)
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}
	st, err := b.open(ctx)
	if err != nil {
		return nil, err
	}
	b.st = st
	return st, nil
}

func (b *lazyFS) List(ctx context.Context, prefix string) (simpleblob.BlobList, error) {
	st, err := b.backend(ctx, false)
	if err != nil || st == nil {
		return nil, err
	}
	return st.List(ctx, prefix)
}

func (b *lazyFS) Load(ctx context.Context, name string) ([]byte, error) {
	st, err := b.backend(ctx, false)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, os.ErrNotExist
	}
	return st.Load(ctx, name)
}

func (b *lazyFS) Store(ctx context.Context, name string, data []byte) error {
	st, err := b.backend(ctx, true)
	if err != nil {
		return err
	}
	return st.Store(ctx, name, data)
}

func (b *lazyFS) Delete(ctx context.Context, name string) error {
	st, err := b.backend(ctx, false)
	if err != nil || st == nil {
		return err
	}
	return st.Delete(ctx, name)
}

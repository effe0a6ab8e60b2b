// Package file stores each collection as a JSON document in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type Backend struct {
	dir string
}

// Open prepares dir (creating it if needed) as a collection directory.
func Open(dir string) (*Backend, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Backend{dir: dir}, nil
}

func (b *Backend) Path(collection string) string {
	return filepath.Join(b.dir, collection+".json")
}

func (b *Backend) Read(ctx context.Context, collection string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.Path(collection))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Write replaces the collection file. The new content goes to a temp file
// in the same directory which is synced and renamed over the old file, so
// readers see either the old or the new document.
func (b *Backend) Write(ctx context.Context, collection string, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.dir, "."+collection+"-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o640); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), b.Path(collection)); err != nil {
		return err
	}
	return syncDir(b.dir)
}

func (b *Backend) Close() error { return nil }

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	// Some filesystems refuse fsync on directories; the rename already happened.
	_ = d.Sync()
	return nil
}

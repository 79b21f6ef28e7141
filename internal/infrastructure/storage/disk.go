// Package storage keeps uploaded files on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

// Disk stores each upload as <uuid><ext> inside a single directory.
type Disk struct {
	dir string
}

var _ ports.FileStorage = (*Disk)(nil)

// NewDisk creates dir if needed.
func NewDisk(dir string) (*Disk, error) {
	if dir == "" {
		return nil, errors.New("storage: upload directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", dir, err)
	}
	return &Disk{dir: dir}, nil
}

// Dir is the directory files are written to.
func (d *Disk) Dir() string {
	return d.dir
}

func (d *Disk) Save(ctx context.Context, ext string, r io.Reader, maxBytes int64) (ports.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return ports.StoredFile{}, err
	}

	name := uuid.NewString() + ext
	path := filepath.Join(d.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return ports.StoredFile{}, fmt.Errorf("storage: open %s: %w", name, err)
	}

	src := r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && maxBytes > 0 && n > maxBytes {
		err = domain.ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, domain.ErrFileRejected) {
			return ports.StoredFile{}, err
		}
		return ports.StoredFile{}, fmt.Errorf("storage: write %s: %w", name, err)
	}

	return ports.StoredFile{Name: name, Size: n}, nil
}

// Ping checks the directory still exists and accepts new files.
func (d *Disk) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.CreateTemp(d.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("storage: %s not writable: %w", d.dir, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

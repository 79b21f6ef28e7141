package ports

import (
	"context"
	"io"
)

// StoredFile describes a persisted upload.
type StoredFile struct {
	Name string // generated on-disk name, unique per upload
	Size int64
}

// FileStorage persists uploaded content under generated names.
type FileStorage interface {
	// Save copies at most maxBytes from r. Larger content is discarded and
	// domain.ErrFileTooLarge returned.
	Save(ctx context.Context, ext string, r io.Reader, maxBytes int64) (StoredFile, error)
	// Ping reports whether the storage is writable.
	Ping(ctx context.Context) error
}

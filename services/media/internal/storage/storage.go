// Package storage abstracts the object store holding uploaded files. The row
// in the media table is the source of truth; the object under StorageKey is
// the payload.
package storage

import (
	"context"
	"io"
)

type ObjectStorage interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

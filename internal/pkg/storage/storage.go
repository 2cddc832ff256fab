package storage

import (
	"context"
	"io"
)

// Storage is the minimal surface for photo storage backends: put a file,
// delete it, resolve its public URL.
type Storage interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

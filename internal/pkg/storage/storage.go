package storage

import (
	"context"
	"io"
)

// Storage defines the minimal interface for avatar object storage.
// Save a file, Delete a file, get its public URL.
type Storage interface {
	// Save stores a file under the given key.
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a file by key. Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a stored key.
	GetURL(key string) string
}

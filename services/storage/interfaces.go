// Package storage provides the two backends a photo upload is written to: an
// object store that can hand out signed read URLs, and a file share that
// receives a mirror copy of each upload.
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the interface for object storage operations
type ObjectStore interface {
	// PutObject writes the object, replacing any object with the same name.
	PutObject(ctx context.Context, name string, reader io.Reader, size int64, contentType string) error

	// ListObjects returns every object in the container.
	ListObjects(ctx context.Context) ([]ObjectInfo, error)

	// SignedURL returns a read-only URL for the object that expires after ttl.
	SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error)

	// Name identifies the backend in logs and health output.
	Name() string
}

// FileShare defines the interface for writing files to a file share
type FileShare interface {
	// UploadFile writes the file at the share root, replacing any file with
	// the same name.
	UploadFile(ctx context.Context, name string, reader io.Reader, size int64) error

	Name() string
}

// ObjectInfo contains information about a stored object
type ObjectInfo struct {
	Name         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

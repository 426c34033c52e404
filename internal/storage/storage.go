// Package storage publishes finished run outputs to object storage.
package storage

import (
	"context"
	"errors"
	"path"
)

// Common errors for storage operations.
var (
	ErrObjectExists = errors.New("object already exists")
	ErrUploadFailed = errors.New("upload failed")
)

// ObjectStorage abstracts where run outputs are published.
// Implementations are S3 and the local filesystem.
type ObjectStorage interface {
	// Upload copies the file at localPath to objectPath.
	Upload(ctx context.Context, localPath, objectPath string) error

	// Exists reports whether objectPath is present.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// ListObjects returns all object paths under prefix, sorted.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// RunKey is the object path of one output file of a run:
// <prefix>/<runID>/<name>. An empty prefix is dropped.
func RunKey(prefix, runID, name string) string {
	return path.Join(prefix, runID, name)
}

// RunPrefix is the listing prefix of every object of a run, with a trailing
// slash so that run-1 does not match run-10.
func RunPrefix(prefix, runID string) string {
	return path.Join(prefix, runID) + "/"
}

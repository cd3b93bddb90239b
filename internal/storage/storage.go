// Package storage provides object storage for table metadata documents.
// Implementations include S3 and the local filesystem; payloads are
// snappy-compressed at rest.
package storage

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrUploadFailed   = errors.New("upload failed")
	ErrDownloadFailed = errors.New("download failed")
	ErrDeleteFailed   = errors.New("delete failed")
)

// Store abstracts object storage for metadata documents.
type Store interface {
	// Put writes a document at the given object path, replacing any
	// existing content.
	Put(ctx context.Context, objectPath string, data []byte) error

	// Get reads the document at the given object path.
	// Returns ErrObjectNotFound if no document exists.
	Get(ctx context.Context, objectPath string) ([]byte, error)

	// Delete removes the document at the given object path.
	Delete(ctx context.Context, objectPath string) error

	// Exists checks whether a document exists at the given object path.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// List returns all object paths under the given prefix.
	// Used by catalog reconciliation to detect orphaned documents.
	List(ctx context.Context, prefix string) ([]string, error)
}

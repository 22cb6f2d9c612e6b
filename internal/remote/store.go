// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// package remote defines the narrow object-store client surface Bucketpad
// consumes, with S3 and SFTP backed implementations. The wire protocols
// themselves are not Bucketpad's concern; everything above this package
// only sees Head/Download/Upload/List.
package remote

import (
	"context"
	"errors"
	"time"

	"github.com/toeirei/bucketpad/internal/model"
)

// ErrNotFound is returned when the addressed object does not exist.
var ErrNotFound = errors.New("remote: object not found")

// ObjectInfo is the metadata a head request yields.
type ObjectInfo struct {
	ETag         string
	Size         int64
	LastModified time.Time
}

// ProgressFunc receives the cumulative number of bytes transferred so
// far. Implementations are called from the transfer goroutine and must
// be cheap.
type ProgressFunc func(transferred int64)

// Store is the object-store client collaborator.
type Store interface {
	// Head fetches current metadata for the object.
	Head(ctx context.Context, id model.Identity) (ObjectInfo, error)
	// Download fetches the object's content, reporting progress as it
	// streams.
	Download(ctx context.Context, id model.Identity, progress ProgressFunc) ([]byte, error)
	// Upload replaces the object's content and returns the resulting
	// metadata (at least the new ETag).
	Upload(ctx context.Context, id model.Identity, data []byte) (ObjectInfo, error)
	// List enumerates objects under bucket/prefix.
	List(ctx context.Context, bucket, prefix string) ([]model.RemoteFile, error)
}

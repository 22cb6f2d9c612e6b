// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data types shared across Bucketpad:
// remote object identities, file metadata snapshots and the virtual URI
// scheme used to address an object in read-only or editable mode.
package model

import (
	"fmt"
	"path"
	"time"
)

// SizeUnknown is the SizeBytes value for an object whose size has not been
// reported by the remote store.
const SizeUnknown int64 = -1

// LargeFileBytes is the size above which Bucketpad treats a transfer as
// large: downloads get prominent progress reporting and opening the file
// requires explicit confirmation. Unknown sizes are treated as large.
const LargeFileBytes int64 = 4_000_000

// Identity uniquely names one remote object. Two Identity values with the
// same fields address the same object; it is used as the canonical map key
// in the tab and provider registries.
type Identity struct {
	Bucket string
	Key    string
	Region string
}

// String returns the canonical "region/bucket/key" form.
func (id Identity) String() string {
	return fmt.Sprintf("%s/%s/%s", id.Region, id.Bucket, id.Key)
}

// IsZero reports whether the identity is empty.
func (id Identity) IsZero() bool {
	return id.Bucket == "" && id.Key == ""
}

// RemoteFile is the metadata snapshot for one remote object. The mutable
// fields (ETag, SizeBytes, LastModified) are refreshed after every read or
// write. A RemoteFile is exclusively owned by the provider backing it.
type RemoteFile struct {
	Identity     Identity
	Name         string
	SizeBytes    int64 // SizeUnknown when the store did not report a size
	LastModified time.Time
	ETag         string
}

// NewRemoteFile builds a RemoteFile for the given identity with the display
// name derived from the last key segment and an unknown size.
func NewRemoteFile(id Identity) RemoteFile {
	return RemoteFile{
		Identity:  id,
		Name:      path.Base(id.Key),
		SizeBytes: SizeUnknown,
	}
}

// DisplayPath returns the human-readable "region/virtual-directory/name"
// path used in tab titles and prompts.
func (f RemoteFile) DisplayPath() string {
	dir := path.Dir(f.Identity.Key)
	if dir == "." || dir == "/" {
		return path.Join(f.Identity.Region, f.Identity.Bucket, f.Name)
	}
	return path.Join(f.Identity.Region, f.Identity.Bucket, dir, f.Name)
}

// SizeKnown reports whether the store has told us how large the object is.
func (f RemoteFile) SizeKnown() bool {
	return f.SizeBytes >= 0
}

// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// package vfs is the virtual filesystem surface: per-file providers
// exposing read/write/stat against the remote store, and the host that
// registers them under their virtual URIs.
package vfs

import (
	"context"
	"net/url"
	"time"
)

// Disposable releases one registered resource.
type Disposable interface {
	Dispose() error
}

// FileInfo is what Stat reports. Creation time is not tracked by remote
// stores and is always the zero time.
type FileInfo struct {
	Size    int64
	ModTime time.Time
	CTime   time.Time
}

// Provider exposes one open remote resource to the virtual filesystem.
type Provider interface {
	// Read downloads the file's content.
	Read(ctx context.Context) ([]byte, error)
	// Write uploads new content and refreshes the cached metadata from
	// the upload result.
	Write(ctx context.Context, data []byte) error
	// Stat forces a metadata refresh and reports size and mtime.
	Stat(ctx context.Context) (FileInfo, error)
	// Refresh re-queries metadata without transferring content.
	Refresh(ctx context.Context) error

	Disposable
}

// Host registers providers for virtual URIs.
type Host interface {
	// RegisterProvider makes the provider available under uri. The
	// returned disposable removes the registration.
	RegisterProvider(uri *url.URL, p Provider) (Disposable, error)
	// KeyFor returns the canonical identity string for a URI, used as
	// the registry map key.
	KeyFor(uri *url.URL) string
}

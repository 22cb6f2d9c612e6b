// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// package tabs owns the mapping from remote objects to open editor
// surfaces. It enforces at-most-one-active-tab per resource, coordinates
// the read/edit mode hand-off, gates large downloads behind confirmation
// and tears virtual-file providers down when tabs close.
package tabs

import (
	"context"
	"errors"
	"net/url"

	"github.com/toeirei/bucketpad/internal/model"
	"github.com/toeirei/bucketpad/internal/vfs"
)

// ErrCancelled reports that the user declined to proceed; it is a normal
// exit path, not a failure.
var ErrCancelled = errors.New("tabs: cancelled by user")

// ErrNoActiveTab reports that an edit-by-URI was attempted for a
// resource with no open tab. Correct callers never hit this.
var ErrNoActiveTab = errors.New("tabs: cannot open from URI without an active tab")

// EditorHandle is one open editor surface. Handles may be nil for
// surfaces whose closure the host cannot observe.
type EditorHandle interface {
	// Focus brings the surface to the foreground so a following Close
	// cannot hit the wrong surface.
	Focus() error
	Close() error
}

// EditorHost opens editing surfaces for virtual URIs.
type EditorHost interface {
	// OpenPreview opens a read-only surface. A nil handle with a nil
	// error means the surface exists but its closure is unobservable.
	OpenPreview(ctx context.Context, uri *url.URL, title string) (EditorHandle, error)
	// OpenEditor opens an editable document.
	OpenEditor(ctx context.Context, uri *url.URL, title string) (EditorHandle, error)
	// OnDocumentClosed reports any close of a document, however it was
	// triggered. The returned function releases the subscription.
	OnDocumentClosed(fn func(uri *url.URL)) (release func())
}

// Confirmer asks the user to confirm risky operations.
type Confirmer interface {
	// ConfirmDownload asks whether a large or unknown-size download
	// should proceed.
	ConfirmDownload(ctx context.Context, file model.RemoteFile) (bool, error)
	// ShowEditWarning surfaces the one-time editing-consequence warning.
	// suppress asks to never show it again.
	ShowEditWarning(ctx context.Context, file model.RemoteFile) (suppress bool, err error)
}

// Settings is the persisted-preference collaborator gating the edit
// warning.
type Settings interface {
	SuppressEditWarning() bool
	SetSuppressEditWarning(suppress bool) error
}

// Tab records one open surface bound to one remote resource and mode.
type Tab struct {
	Mode model.TabMode
	File model.RemoteFile
	URI  *url.URL

	editor      EditorHandle
	provider    vfs.Provider
	providerReg vfs.Disposable
	providerKey string
}

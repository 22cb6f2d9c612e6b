// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"fmt"
	"net/url"
	"strings"
)

// TabMode selects how a remote file is opened locally.
type TabMode int

const (
	// ModeRead opens the file in a read-only preview surface.
	ModeRead TabMode = iota
	// ModeEdit opens the file in an editable document.
	ModeEdit
)

// String returns the mode name used in logs and telemetry.
func (m TabMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "read"
}

// The URI scheme encodes the open mode, so the same object has two
// distinguishable URIs depending on whether it is previewed or edited.
const (
	SchemeReadOnly = "bucketpad-ro"
	SchemeEditable = "bucketpad-edit"
)

// URIFor builds the virtual URI for a remote file in the given mode. The
// layout is scheme://region/bucket/key.
func URIFor(id Identity, mode TabMode) *url.URL {
	scheme := SchemeReadOnly
	if mode == ModeEdit {
		scheme = SchemeEditable
	}
	return &url.URL{
		Scheme: scheme,
		Host:   id.Region,
		Path:   "/" + id.Bucket + "/" + id.Key,
	}
}

// ParseURI recovers the identity and mode from a virtual URI produced by
// URIFor. It rejects URIs with foreign schemes or a missing bucket/key.
func ParseURI(u *url.URL) (Identity, TabMode, error) {
	var mode TabMode
	switch u.Scheme {
	case SchemeReadOnly:
		mode = ModeRead
	case SchemeEditable:
		mode = ModeEdit
	default:
		return Identity{}, 0, fmt.Errorf("not a bucketpad URI scheme: %q", u.Scheme)
	}

	trimmed := strings.TrimPrefix(u.Path, "/")
	bucket, key, ok := strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return Identity{}, 0, fmt.Errorf("malformed bucketpad URI path: %q", u.Path)
	}

	return Identity{Bucket: bucket, Key: key, Region: u.Host}, mode, nil
}

// URIKey returns the canonical string used to key provider registries by
// URI. Query and fragment parts never carry identity and are dropped.
func URIKey(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	c.Fragment = ""
	return c.String()
}

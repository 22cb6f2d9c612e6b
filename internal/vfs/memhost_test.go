// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package vfs_test

import (
	"testing"

	"github.com/toeirei/bucketpad/internal/model"
	"github.com/toeirei/bucketpad/internal/testutil"
	"github.com/toeirei/bucketpad/internal/vfs"
)

func TestMemHostRejectsDuplicateRegistration(t *testing.T) {
	host := vfs.NewMemHost()
	id := model.Identity{Bucket: "assets", Key: "a.txt", Region: "eu-central-1"}
	uri := model.URIFor(id, model.ModeRead)
	p := vfs.NewRemoteProvider(model.NewRemoteFile(id), testutil.NewFakeStore(), nil, nil, nil)

	reg, err := host.RegisterProvider(uri, p)
	if err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := host.RegisterProvider(uri, p); err == nil {
		t.Fatal("duplicate registration must be rejected")
	}

	if err := reg.Dispose(); err != nil {
		t.Fatalf("dispose failed: %v", err)
	}
	if host.Count() != 0 {
		t.Fatalf("disposed registration still counted, count=%d", host.Count())
	}

	// After disposal the slot is free again.
	if _, err := host.RegisterProvider(uri, p); err != nil {
		t.Fatalf("re-registration after dispose failed: %v", err)
	}
}

func TestMemHostRegistrationDisposeIsIdempotent(t *testing.T) {
	host := vfs.NewMemHost()
	id := model.Identity{Bucket: "assets", Key: "a.txt", Region: "eu-central-1"}
	uri := model.URIFor(id, model.ModeEdit)
	p := vfs.NewRemoteProvider(model.NewRemoteFile(id), testutil.NewFakeStore(), nil, nil, nil)

	reg, err := host.RegisterProvider(uri, p)
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := reg.Dispose(); err != nil {
		t.Fatalf("dispose failed: %v", err)
	}
	if err := reg.Dispose(); err != nil {
		t.Fatalf("second dispose must be a no-op, got %v", err)
	}
	if host.Count() != 0 {
		t.Fatalf("count after double dispose = %d", host.Count())
	}
}

func TestMemHostLookupByURI(t *testing.T) {
	host := vfs.NewMemHost()
	id := model.Identity{Bucket: "assets", Key: "a.txt", Region: "eu-central-1"}
	readURI := model.URIFor(id, model.ModeRead)
	editURI := model.URIFor(id, model.ModeEdit)
	p := vfs.NewRemoteProvider(model.NewRemoteFile(id), testutil.NewFakeStore(), nil, nil, nil)

	if _, err := host.RegisterProvider(readURI, p); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if _, ok := host.Lookup(readURI); !ok {
		t.Fatal("registered URI not found")
	}
	// Same resource, different mode scheme: a distinct document.
	if _, ok := host.Lookup(editURI); ok {
		t.Fatal("edit URI must not resolve to the read registration")
	}
}

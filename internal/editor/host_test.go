// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package editor

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/toeirei/bucketpad/internal/model"
	"github.com/toeirei/bucketpad/internal/testutil"
	"github.com/toeirei/bucketpad/internal/vfs"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive shell-script editors")
	}
}

// script writes an executable shell script and returns its path.
func script(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

type fixture struct {
	host  *Host
	store *testutil.FakeStore
	uri   *url.URL
	id    model.Identity
}

func newFixture(t *testing.T, body []byte) *fixture {
	t.Helper()
	id := model.Identity{Bucket: "assets", Key: "notes.txt", Region: "eu-central-1"}
	store := testutil.NewFakeStore()
	store.Seed(id, body)

	memhost := vfs.NewMemHost()
	uri := model.URIFor(id, model.ModeEdit)
	provider := vfs.NewRemoteProvider(model.NewRemoteFile(id), store, nil, nil, nil)
	if _, err := memhost.RegisterProvider(uri, provider); err != nil {
		t.Fatalf("register provider: %v", err)
	}

	return &fixture{host: NewHost(memhost), store: store, uri: uri, id: id}
}

func waitClosed(t *testing.T, ch <-chan *url.URL) *url.URL {
	t.Helper()
	select {
	case uri := <-ch:
		return uri
	case <-time.After(5 * time.Second):
		t.Fatal("document close event never fired")
		return nil
	}
}

func TestPreviewFiresDocumentClosed(t *testing.T) {
	skipWithoutShell(t)
	f := newFixture(t, []byte("hello"))
	t.Setenv("PAGER", script(t, "exit 0"))

	closed := make(chan *url.URL, 1)
	f.host.OnDocumentClosed(func(uri *url.URL) { closed <- uri })

	if _, err := f.host.OpenPreview(context.Background(), f.uri, "notes.txt"); err != nil {
		t.Fatalf("open preview: %v", err)
	}

	if got := waitClosed(t, closed); got.String() != f.uri.String() {
		t.Fatalf("closed %s, want %s", got, f.uri)
	}
	if f.store.UploadCalls != 0 {
		t.Fatal("preview must never upload")
	}
}

func TestEditorWritesBackChangedContent(t *testing.T) {
	skipWithoutShell(t)
	f := newFixture(t, []byte("v1\n"))
	t.Setenv("VISUAL", script(t, `echo edited >> "$1"`))

	closed := make(chan *url.URL, 1)
	f.host.OnDocumentClosed(func(uri *url.URL) { closed <- uri })

	if _, err := f.host.OpenEditor(context.Background(), f.uri, "notes.txt"); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	waitClosed(t, closed)

	if f.store.UploadCalls != 1 {
		t.Fatalf("expected one upload, got %d", f.store.UploadCalls)
	}
	data, err := f.store.Download(context.Background(), f.id, nil)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "v1\nedited\n" {
		t.Fatalf("unexpected remote content %q", data)
	}
}

func TestEditorSkipsUploadWhenUnchanged(t *testing.T) {
	skipWithoutShell(t)
	f := newFixture(t, []byte("v1\n"))
	t.Setenv("VISUAL", script(t, "exit 0"))

	closed := make(chan *url.URL, 1)
	f.host.OnDocumentClosed(func(uri *url.URL) { closed <- uri })

	if _, err := f.host.OpenEditor(context.Background(), f.uri, "notes.txt"); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	waitClosed(t, closed)

	if f.store.UploadCalls != 0 {
		t.Fatalf("unchanged content must not upload, got %d uploads", f.store.UploadCalls)
	}
}

func TestCloseKillsRunningTool(t *testing.T) {
	skipWithoutShell(t)
	f := newFixture(t, []byte("hello"))
	t.Setenv("PAGER", script(t, "sleep 30"))

	closed := make(chan *url.URL, 1)
	f.host.OnDocumentClosed(func(uri *url.URL) { closed <- uri })

	hd, err := f.host.OpenPreview(context.Background(), f.uri, "notes.txt")
	if err != nil {
		t.Fatalf("open preview: %v", err)
	}
	if err := hd.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	waitClosed(t, closed)
}

func TestOpenWithoutProviderFails(t *testing.T) {
	skipWithoutShell(t)
	host := NewHost(vfs.NewMemHost())
	uri := model.URIFor(model.Identity{Bucket: "b", Key: "k", Region: "r"}, model.ModeRead)

	if _, err := host.OpenPreview(context.Background(), uri, "k"); err == nil {
		t.Fatal("expected an error for an unregistered URI")
	}
}

func TestReleasedSubscriberStopsReceiving(t *testing.T) {
	skipWithoutShell(t)
	f := newFixture(t, []byte("hello"))
	t.Setenv("PAGER", script(t, "exit 0"))

	events := 0
	release := f.host.OnDocumentClosed(func(*url.URL) { events++ })
	release()

	closed := make(chan *url.URL, 1)
	f.host.OnDocumentClosed(func(uri *url.URL) { closed <- uri })

	if _, err := f.host.OpenPreview(context.Background(), f.uri, "notes.txt"); err != nil {
		t.Fatalf("open preview: %v", err)
	}
	waitClosed(t, closed)

	if events != 0 {
		t.Fatal("released subscriber must not receive events")
	}
}

// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// Package editor opens remote documents in the user's local editor or
// pager. Content is materialized to a temp file, the tool runs attached
// to the terminal, and edited bytes are written back through the file
// provider when the tool exits.
package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/toeirei/bucketpad/internal/logging"
	"github.com/toeirei/bucketpad/internal/tabs"
	"github.com/toeirei/bucketpad/internal/vfs"
)

// ProviderLookup resolves a virtual URI to its registered provider.
// *vfs.MemHost satisfies it.
type ProviderLookup interface {
	Lookup(uri *url.URL) (vfs.Provider, bool)
}

// Host launches local tools for bucketpad documents and reports their
// exits as document-close events.
type Host struct {
	lookup ProviderLookup

	mu      sync.Mutex
	subs    map[int]func(*url.URL)
	nextSub int
}

// NewHost builds a host resolving providers through lookup.
func NewHost(lookup ProviderLookup) *Host {
	return &Host{lookup: lookup, subs: map[int]func(*url.URL){}}
}

var _ tabs.EditorHost = (*Host)(nil)

// handle wraps one running tool process.
type handle struct {
	mu   sync.Mutex
	proc *os.Process
}

// Focus is a no-op: a terminal tool owns the tty while it runs.
func (h *handle) Focus() error { return nil }

// Close terminates the tool process. The exit still flows through the
// document-closed path.
func (h *handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.proc == nil {
		return nil
	}
	err := h.proc.Kill()
	h.proc = nil
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// OpenPreview shows the document in the user's pager. No write-back
// happens on exit.
func (h *Host) OpenPreview(ctx context.Context, uri *url.URL, title string) (tabs.EditorHandle, error) {
	return h.open(ctx, uri, title, pagerCommand(), false)
}

// OpenEditor opens the document in the user's editor and uploads changed
// content when the editor exits.
func (h *Host) OpenEditor(ctx context.Context, uri *url.URL, title string) (tabs.EditorHandle, error) {
	return h.open(ctx, uri, title, editorCommand(), true)
}

func (h *Host) open(ctx context.Context, uri *url.URL, title, tool string, writeBack bool) (tabs.EditorHandle, error) {
	provider, ok := h.lookup.Lookup(uri)
	if !ok {
		return nil, fmt.Errorf("no provider registered for %s", uri)
	}

	data, err := provider.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", title, err)
	}

	tmp, err := materialize(title, data, writeBack)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(tool, tmp)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("could not start %s: %w", tool, err)
	}

	hd := &handle{proc: cmd.Process}

	go func() {
		defer os.Remove(tmp)
		if err := cmd.Wait(); err != nil {
			logging.Debugf("%s exited: %v", tool, err)
		}
		if writeBack {
			h.writeBack(provider, tmp, data, title)
		}
		h.fireClosed(uri)
	}()

	return hd, nil
}

// writeBack uploads the temp file when the editor changed it.
func (h *Host) writeBack(provider vfs.Provider, tmp string, original []byte, title string) {
	edited, err := os.ReadFile(tmp)
	if err != nil {
		logging.Errorf("could not read edited copy of %s: %v", title, err)
		return
	}
	if bytes.Equal(edited, original) {
		return
	}
	if err := provider.Write(context.Background(), edited); err != nil {
		logging.Errorf("could not upload %s: %v", title, err)
		return
	}
	logging.Infof("uploaded %s (%d bytes)", title, len(edited))
}

// OnDocumentClosed subscribes to tool exits. The returned function
// releases the subscription.
func (h *Host) OnDocumentClosed(fn func(uri *url.URL)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *Host) fireClosed(uri *url.URL) {
	h.mu.Lock()
	subs := make([]func(*url.URL), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()
	for _, fn := range subs {
		fn(uri)
	}
}

// materialize writes content to a temp file carrying the document's
// extension so editors pick the right mode. Read-only previews get
// read-only permissions.
func materialize(title string, data []byte, writable bool) (string, error) {
	f, err := os.CreateTemp("", "bucketpad-*"+filepath.Ext(title))
	if err != nil {
		return "", fmt.Errorf("could not create temp file: %w", err)
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("could not write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	if !writable {
		if err := os.Chmod(name, 0400); err != nil {
			logging.Debugf("could not mark %s read-only: %v", name, err)
		}
	}
	return name, nil
}

func editorCommand() string {
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if v := os.Getenv("EDITOR"); v != "" {
		return v
	}
	return "vi"
}

func pagerCommand() string {
	if v := os.Getenv("PAGER"); v != "" {
		return v
	}
	return "less"
}

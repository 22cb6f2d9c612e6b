// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package vfs

import (
	"context"
	"errors"
	"sync"

	"github.com/toeirei/bucketpad/internal/model"
	"github.com/toeirei/bucketpad/internal/remote"
	"github.com/toeirei/bucketpad/internal/state"
	"github.com/toeirei/bucketpad/internal/telemetry"
)

// ErrDisposed is returned by operations on a disposed provider.
var ErrDisposed = errors.New("vfs: provider is disposed")

// ProgressStyle selects how visibly a transfer is surfaced.
type ProgressStyle int

const (
	// ProgressLightweight is a quiet indicator for small files.
	ProgressLightweight ProgressStyle = iota
	// ProgressProminent is a foreground progress display for large or
	// unknown-size transfers.
	ProgressProminent
)

// ProgressReporter surfaces transfer progress to the user. Start returns
// an update callback fed with cumulative bytes and a done callback that
// must be called when the transfer ends, successfully or not.
type ProgressReporter interface {
	Start(label string, style ProgressStyle, total int64) (update func(transferred int64), done func())
}

// NopProgress discards all progress.
type NopProgress struct{}

// Start returns inert callbacks.
func (NopProgress) Start(string, ProgressStyle, int64) (func(int64), func()) {
	return func(int64) {}, func() {}
}

// RemoteProvider adapts one remote object to the Provider interface. It
// exclusively owns its RemoteFile snapshot; the mutable metadata fields
// are refreshed after every read and write.
type RemoteProvider struct {
	store    remote.Store
	recorder telemetry.Recorder
	cache    *state.Cache // may be nil
	progress ProgressReporter

	mu       sync.Mutex
	file     model.RemoteFile
	disposed bool
}

// NewRemoteProvider builds a provider for file. cache may be nil to
// disable content snapshots; progress may be nil to stay quiet.
func NewRemoteProvider(file model.RemoteFile, store remote.Store, recorder telemetry.Recorder, cache *state.Cache, progress ProgressReporter) *RemoteProvider {
	if recorder == nil {
		recorder = telemetry.Nop{}
	}
	if progress == nil {
		progress = NopProgress{}
	}
	return &RemoteProvider{
		store:    store,
		recorder: recorder,
		cache:    cache,
		progress: progress,
		file:     file,
	}
}

var _ Provider = (*RemoteProvider)(nil)

// File returns the current metadata snapshot.
func (p *RemoteProvider) File() model.RemoteFile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file
}

// Read downloads the file's content. A fresh head request is made first;
// when a cached snapshot matches the current etag the download is
// skipped entirely. The completion telemetry event is recorded on
// success only.
func (p *RemoteProvider) Read(ctx context.Context) ([]byte, error) {
	if err := p.Refresh(ctx); err != nil {
		return nil, err
	}
	file := p.File()

	if p.cache != nil {
		if data, ok, err := p.cache.GetContent(file.Identity, file.ETag); err == nil && ok {
			return data, nil
		}
	}

	style := ProgressLightweight
	if !file.SizeKnown() || file.SizeBytes > model.LargeFileBytes {
		style = ProgressProminent
	}
	update, done := p.progress.Start(file.DisplayPath(), style, file.SizeBytes)
	defer done()

	data, err := p.store.Download(ctx, file.Identity, remote.ProgressFunc(update))
	if err != nil {
		return nil, err
	}

	p.recorder.Record(telemetry.NewEvent("remotefile_download", map[string]any{
		"bucket": file.Identity.Bucket,
		"bytes":  len(data),
	}))

	if p.cache != nil {
		if err := p.cache.PutContent(file.Identity, file.ETag, data); err == nil {
			_ = p.cache.PutMeta(ctx, file)
		}
	}
	return data, nil
}

// Write uploads new content and refreshes etag, size and modification
// time from the upload result.
func (p *RemoteProvider) Write(ctx context.Context, data []byte) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrDisposed
	}
	id := p.file.Identity
	p.mu.Unlock()

	info, err := p.store.Upload(ctx, id, data)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.file.ETag = info.ETag
	p.file.SizeBytes = info.Size
	p.file.LastModified = info.LastModified
	file := p.file
	p.mu.Unlock()

	p.recorder.Record(telemetry.NewEvent("remotefile_upload", map[string]any{
		"bucket": id.Bucket,
		"bytes":  len(data),
	}))

	if p.cache != nil {
		_ = p.cache.PutContent(id, info.ETag, data)
		_ = p.cache.PutMeta(ctx, file)
	}
	return nil
}

// Stat forces a metadata refresh and reports size and modification time.
// Creation time is not tracked by remote stores and stays zero.
func (p *RemoteProvider) Stat(ctx context.Context) (FileInfo, error) {
	if err := p.Refresh(ctx); err != nil {
		return FileInfo{}, err
	}
	file := p.File()
	return FileInfo{
		Size:    file.SizeBytes,
		ModTime: file.LastModified,
	}, nil
}

// Refresh re-queries metadata without transferring content.
func (p *RemoteProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrDisposed
	}
	id := p.file.Identity
	p.mu.Unlock()

	info, err := p.store.Head(ctx, id)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.file.ETag = info.ETag
	p.file.SizeBytes = info.Size
	p.file.LastModified = info.LastModified
	file := p.file
	p.mu.Unlock()

	if p.cache != nil {
		_ = p.cache.PutMeta(ctx, file)
	}
	return nil
}

// Dispose marks the provider unusable. It never fails; the error return
// satisfies the Disposable contract.
func (p *RemoteProvider) Dispose() error {
	p.mu.Lock()
	p.disposed = true
	p.mu.Unlock()
	return nil
}

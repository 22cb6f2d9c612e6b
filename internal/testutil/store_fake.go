// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package testutil

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/toeirei/bucketpad/internal/model"
	"github.com/toeirei/bucketpad/internal/remote"
)

// FakeStore is an in-memory object store. Objects are seeded with Seed
// and etags are bumped on every upload.
type FakeStore struct {
	mu      sync.Mutex
	objects map[model.Identity]fakeObject
	etagSeq int

	// Error overrides, applied to the next matching call.
	HeadErr     error
	DownloadErr error
	UploadErr   error
	ListErr     error

	// Counters for assertions.
	HeadCalls     int
	DownloadCalls int
	UploadCalls   int
}

type fakeObject struct {
	data    []byte
	etag    string
	modTime time.Time
}

// NewFakeStore returns an empty store.
func NewFakeStore() *FakeStore {
	return &FakeStore{objects: map[model.Identity]fakeObject{}}
}

// Seed installs an object with the given content.
func (s *FakeStore) Seed(id model.Identity, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.etagSeq++
	s.objects[id] = fakeObject{
		data:    append([]byte(nil), data...),
		etag:    s.nextETagLocked(),
		modTime: time.Now().UTC(),
	}
}

func (s *FakeStore) nextETagLocked() string {
	return fmt.Sprintf("etag-%d", s.etagSeq)
}

func (s *FakeStore) Head(ctx context.Context, id model.Identity) (remote.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HeadCalls++
	if s.HeadErr != nil {
		return remote.ObjectInfo{}, s.HeadErr
	}
	obj, ok := s.objects[id]
	if !ok {
		return remote.ObjectInfo{}, remote.ErrNotFound
	}
	return remote.ObjectInfo{ETag: obj.etag, Size: int64(len(obj.data)), LastModified: obj.modTime}, nil
}

func (s *FakeStore) Download(ctx context.Context, id model.Identity, progress remote.ProgressFunc) ([]byte, error) {
	s.mu.Lock()
	s.DownloadCalls++
	err := s.DownloadErr
	obj, ok := s.objects[id]
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, remote.ErrNotFound
	}
	if progress != nil {
		progress(int64(len(obj.data)))
	}
	return append([]byte(nil), obj.data...), nil
}

func (s *FakeStore) Upload(ctx context.Context, id model.Identity, data []byte) (remote.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UploadCalls++
	if s.UploadErr != nil {
		return remote.ObjectInfo{}, s.UploadErr
	}
	s.etagSeq++
	obj := fakeObject{
		data:    append([]byte(nil), data...),
		etag:    s.nextETagLocked(),
		modTime: time.Now().UTC(),
	}
	s.objects[id] = obj
	return remote.ObjectInfo{ETag: obj.etag, Size: int64(len(obj.data)), LastModified: obj.modTime}, nil
}

func (s *FakeStore) List(ctx context.Context, bucket, prefix string) ([]model.RemoteFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var files []model.RemoteFile
	for id, obj := range s.objects {
		if id.Bucket != bucket || !strings.HasPrefix(id.Key, prefix) {
			continue
		}
		files = append(files, model.RemoteFile{
			Identity:     id,
			Name:         path.Base(id.Key),
			SizeBytes:    int64(len(obj.data)),
			LastModified: obj.modTime,
			ETag:         obj.etag,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Identity.Key < files[j].Identity.Key })
	return files, nil
}

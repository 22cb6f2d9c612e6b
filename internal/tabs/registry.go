// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package tabs

import (
	"sync"

	"github.com/toeirei/bucketpad/internal/model"
	"github.com/toeirei/bucketpad/internal/vfs"
)

// tabRegistry is the authoritative map from resource identity to open
// tab. It is not self-locking; the manager serializes access.
type tabRegistry struct {
	m map[model.Identity]*Tab
}

func newTabRegistry() *tabRegistry {
	return &tabRegistry{m: map[model.Identity]*Tab{}}
}

func (r *tabRegistry) insert(t *Tab) {
	r.m[t.File.Identity] = t
}

func (r *tabRegistry) lookup(id model.Identity) (*Tab, bool) {
	t, ok := r.m[id]
	return t, ok
}

func (r *tabRegistry) remove(id model.Identity) {
	delete(r.m, id)
}

func (r *tabRegistry) len() int {
	return len(r.m)
}

func (r *tabRegistry) snapshot() []*Tab {
	out := make([]*Tab, 0, len(r.m))
	for _, t := range r.m {
		out = append(out, t)
	}
	return out
}

func (r *tabRegistry) clear() {
	r.m = map[model.Identity]*Tab{}
}

// providerRecord keeps a provider and its host registration together so
// both can be disposed as a unit.
type providerRecord struct {
	provider vfs.Provider
	reg      vfs.Disposable
}

// providerRegistry maps virtual-URI keys to provider records. Records
// persist independently of tabs: a provider backing a surface with no
// closable handle outlives its tab for the process lifetime.
type providerRegistry struct {
	m map[string]providerRecord
}

func newProviderRegistry() *providerRegistry {
	return &providerRegistry{m: map[string]providerRecord{}}
}

func (r *providerRegistry) insert(key string, rec providerRecord) {
	r.m[key] = rec
}

func (r *providerRegistry) remove(key string) (providerRecord, bool) {
	rec, ok := r.m[key]
	if ok {
		delete(r.m, key)
	}
	return rec, ok
}

func (r *providerRegistry) lookup(key string) (providerRecord, bool) {
	rec, ok := r.m[key]
	return rec, ok
}

func (r *providerRegistry) len() int {
	return len(r.m)
}

func (r *providerRegistry) snapshot() []providerRecord {
	out := make([]providerRecord, 0, len(r.m))
	for _, rec := range r.m {
		out = append(out, rec)
	}
	return out
}

func (r *providerRegistry) clear() {
	r.m = map[string]providerRecord{}
}

// keyedMutex serializes operations per resource identity, making the
// dispose-existing-then-create-new sequence atomic with respect to
// concurrent opens of the same resource.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[model.Identity]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[model.Identity]*lockEntry{}}
}

// lock acquires the per-identity lock and returns its release function.
func (k *keyedMutex) lock(id model.Identity) func() {
	k.mu.Lock()
	entry, ok := k.locks[id]
	if !ok {
		entry = &lockEntry{}
		k.locks[id] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

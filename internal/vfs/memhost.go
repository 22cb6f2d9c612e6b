// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package vfs

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/toeirei/bucketpad/internal/model"
)

// MemHost is the in-process Host implementation. Editor surfaces look
// providers up by URI to read and write through them.
type MemHost struct {
	mu        sync.Mutex
	providers map[string]Provider
}

// NewMemHost returns an empty host.
func NewMemHost() *MemHost {
	return &MemHost{providers: map[string]Provider{}}
}

// RegisterProvider makes the provider available under uri. Registering
// the same URI twice is a caller bug and is rejected.
func (h *MemHost) RegisterProvider(uri *url.URL, p Provider) (Disposable, error) {
	key := h.KeyFor(uri)

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.providers[key]; exists {
		return nil, fmt.Errorf("provider already registered for %s", key)
	}
	h.providers[key] = p

	return &registration{host: h, key: key}, nil
}

// KeyFor returns the canonical identity string for a URI.
func (h *MemHost) KeyFor(uri *url.URL) string {
	return model.URIKey(uri)
}

// Lookup returns the provider registered under uri, if any.
func (h *MemHost) Lookup(uri *url.URL) (Provider, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.providers[h.KeyFor(uri)]
	return p, ok
}

// Count reports how many providers are registered.
func (h *MemHost) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.providers)
}

type registration struct {
	host *MemHost
	key  string
	once sync.Once
}

// Dispose removes the registration. Disposing twice is a no-op.
func (r *registration) Dispose() error {
	r.once.Do(func() {
		r.host.mu.Lock()
		delete(r.host.providers, r.key)
		r.host.mu.Unlock()
	})
	return nil
}

// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package prompt

import (
	"context"
	"sync"
)

// promise is a single-resolution future: only the first resolve call
// wins, later calls are inert. This is what makes concurrent accept and
// hide events safe without ordering assumptions.
type promise[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
}

func newPromise[T any]() *promise[T] {
	return &promise[T]{done: make(chan struct{})}
}

// resolve settles the promise. Only the first call has any effect.
func (p *promise[T]) resolve(v T) {
	p.once.Do(func() {
		p.val = v
		close(p.done)
	})
}

// await blocks until the promise settles or the context is cancelled.
func (p *promise[T]) await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.val, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

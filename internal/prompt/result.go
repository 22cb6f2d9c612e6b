// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package prompt

type resultKind int

const (
	kindCancelled resultKind = iota
	kindValue
	kindSignal
)

// Result is the outcome of a prompt. It is a closed union of three cases:
// the user accepted a value, a flow-control signal was triggered, or the
// prompt was dismissed without a decision. The zero value is cancelled.
type Result[T any] struct {
	kind   resultKind
	value  T
	signal Signal
}

// ResultOf wraps an accepted value.
func ResultOf[T any](v T) Result[T] {
	return Result[T]{kind: kindValue, value: v}
}

// ResultSignal wraps a flow-control signal.
func ResultSignal[T any](s Signal) Result[T] {
	return Result[T]{kind: kindSignal, signal: s}
}

// ResultCancelled is the outcome of a dismissed prompt.
func ResultCancelled[T any]() Result[T] {
	return Result[T]{kind: kindCancelled}
}

// Cancelled reports whether the prompt was dismissed without a decision.
func (r Result[T]) Cancelled() bool {
	return r.kind == kindCancelled
}

// Value returns the accepted value, if any.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.kind == kindValue
}

// Signal returns the flow-control signal, if any.
func (r Result[T]) Signal() (Signal, bool) {
	if r.kind != kindSignal {
		return 0, false
	}
	return r.signal, true
}

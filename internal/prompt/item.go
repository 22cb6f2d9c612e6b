// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package prompt

import "context"

type dataKind int

const (
	dataValue dataKind = iota
	dataDeferred
	dataSignal
	dataCustomInput
)

// ItemData is the payload carried by a selectable item: an immediate
// value, a deferred producer invoked only when the item is selected, a
// flow-control signal, or the custom-input sentinel. The sentinel is its
// own variant of the closed union, so it can never collide with a
// legitimate payload value.
type ItemData[T any] struct {
	kind     dataKind
	value    T
	deferred func(context.Context) (T, error)
	signal   Signal
}

// Value wraps an immediate payload.
func Value[T any](v T) ItemData[T] {
	return ItemData[T]{kind: dataValue, value: v}
}

// Deferred wraps a producer that is invoked and awaited only when the
// item is actually selected.
func Deferred[T any](fn func(context.Context) (T, error)) ItemData[T] {
	return ItemData[T]{kind: dataDeferred, deferred: fn}
}

// Control wraps a flow-control signal payload.
func Control[T any](s Signal) ItemData[T] {
	return ItemData[T]{kind: dataSignal, signal: s}
}

// customInput is the payload of the synthetic free-text entry.
func customInput[T any]() ItemData[T] {
	return ItemData[T]{kind: dataCustomInput}
}

// IsCustomInput reports whether this payload is the free-text sentinel.
func (d ItemData[T]) IsCustomInput() bool {
	return d.kind == dataCustomInput
}

// Resolve unwraps the payload, invoking a deferred producer if needed.
// Resolving the custom-input sentinel is a caller bug; it yields a
// cancelled result so a stale sentinel can never masquerade as data.
func (d ItemData[T]) Resolve(ctx context.Context) (Result[T], error) {
	switch d.kind {
	case dataValue:
		return ResultOf(d.value), nil
	case dataDeferred:
		v, err := d.deferred(ctx)
		if err != nil {
			return ResultCancelled[T](), err
		}
		return ResultOf(v), nil
	case dataSignal:
		return ResultSignal[T](d.signal), nil
	default:
		return ResultCancelled[T](), nil
	}
}

// Item is one entry in a selection list. Label is the identity used for
// matching when a previous response is re-applied.
type Item[T any] struct {
	Label       string
	Description string
	Detail      string
	AlwaysShow  bool
	Data        ItemData[T]
}

// NewItem builds a plain item with an immediate payload.
func NewItem[T any](label string, value T) Item[T] {
	return Item[T]{Label: label, Data: Value(value)}
}

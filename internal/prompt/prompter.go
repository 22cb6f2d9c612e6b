// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package prompt

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyPrompted is returned when Prompt is called a second time on
// the same prompter instance.
var ErrAlreadyPrompted = errors.New("prompt: prompter was already shown")

// Prompter is the uniform contract shared by all interactive input
// widgets: show the widget, suspend until the user decides, and return
// the unwrapped, post-transform result.
type Prompter[T any] interface {
	// Prompt drives the widget to a single decision. It is meaningful at
	// most once per instance and never leaks subscriptions.
	Prompt(ctx context.Context) (Result[T], error)

	// After registers a transform applied to the raw result.
	After(transform func(T) Result[T])

	// ActivateButton dispatches a button action.
	ActivateButton(btn Button)
}

// buttonHandler runs when its button is activated. The bool reports
// whether the handler produced a result that should settle the prompt;
// handlers with side effects only (help links, clipboard) return false.
type buttonHandler[T any] func() (Result[T], bool)

type buttonBinding[T any] struct {
	button  Button
	handler buttonHandler[T]
}

// base carries the state every prompter shares: after-transforms, button
// bindings and pass-through widget flags. Concrete prompters embed it.
type base[T any] struct {
	widget Widget[T]

	mu         sync.Mutex
	transforms []func(T) Result[T]
	bindings   []buttonBinding[T]
	session    *session[T]
}

// After registers a transform applied to the raw unwrapped result before
// it is returned. Transforms compose in registration order; a transform
// returning a signal or cancellation short-circuits the rest.
func (b *base[T]) After(transform func(T) Result[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transforms = append(b.transforms, transform)
}

// AddButton registers an action button on the widget.
func (b *base[T]) AddButton(btn Button, handler buttonHandler[T]) {
	b.mu.Lock()
	b.bindings = append(b.bindings, buttonBinding[T]{button: btn, handler: handler})
	buttons := make([]Button, len(b.bindings))
	for i, bind := range b.bindings {
		buttons[i] = bind.button
	}
	b.mu.Unlock()
	b.widget.SetButtons(buttons)
}

// ActivateButton resolves the matching registered action. A button that
// produces a value settles the running prompt through the same path as a
// user accept; buttons never auto-accept or auto-cancel on their own.
func (b *base[T]) ActivateButton(btn Button) {
	b.activate(btn)
}

func (b *base[T]) activate(btn Button) {
	b.mu.Lock()
	var handler buttonHandler[T]
	for _, bind := range b.bindings {
		if bind.button.ID == btn.ID {
			handler = bind.handler
			break
		}
	}
	sess := b.session
	b.mu.Unlock()

	if handler == nil {
		return
	}
	res, produced := handler()
	if produced && sess != nil {
		sess.inject(res)
	}
}

// applyAfter runs the registered transforms over a value result. Signals
// and cancellations pass through untouched, and the first transform that
// yields a non-value stops the chain.
func (b *base[T]) applyAfter(res Result[T]) Result[T] {
	b.mu.Lock()
	transforms := make([]func(T) Result[T], len(b.transforms))
	copy(transforms, b.transforms)
	b.mu.Unlock()

	for _, transform := range transforms {
		v, ok := res.Value()
		if !ok {
			break
		}
		res = transform(v)
	}
	return res
}

func (b *base[T]) setSession(s *session[T]) {
	b.mu.Lock()
	b.session = s
	b.mu.Unlock()
}

// SetBusy forwards the busy flag to the widget.
func (b *base[T]) SetBusy(busy bool) { b.widget.SetBusy(busy) }

// SetEnabled forwards the enabled flag to the widget.
func (b *base[T]) SetEnabled(enabled bool) { b.widget.SetEnabled(enabled) }

// SetTitle forwards the title to the widget.
func (b *base[T]) SetTitle(title string) { b.widget.SetTitle(title) }

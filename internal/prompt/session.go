// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package prompt

import (
	"context"
	"sync"
)

// buttonActivator is the slice of the owning prompter a session needs:
// button events are delegated upward, they never settle the session by
// themselves.
type buttonActivator interface {
	activate(btn Button)
}

// outcome is what a session settles to. Exactly one of the fields is
// meaningful: items for a user accept, direct for a value injected by a
// button action. Both nil means the widget was dismissed.
type outcome[T any] struct {
	items  []Item[T]
	direct *Result[T]
}

// session converts the widget's accept/hide/button events into a single
// settled outcome, releasing every subscription and hiding the widget
// exactly once no matter which path settles it.
type session[T any] struct {
	widget   Widget[T]
	owner    buttonActivator
	result   *promise[outcome[T]]
	releases []func()
	closed   sync.Once
}

func newSession[T any](w Widget[T], owner buttonActivator) *session[T] {
	return &session[T]{
		widget: w,
		owner:  owner,
		result: newPromise[outcome[T]](),
	}
}

// run shows the widget and blocks until the session settles or the
// context is cancelled. A nil-items, nil-direct outcome means the user
// dismissed the widget.
func (s *session[T]) run(ctx context.Context) (outcome[T], error) {
	defer s.close()

	s.releases = append(s.releases,
		s.widget.OnAccept(func() {
			s.result.resolve(outcome[T]{items: s.widget.Selected()})
		}),
		s.widget.OnHide(func() {
			s.result.resolve(outcome[T]{})
		}),
		s.widget.OnButton(func(btn Button) {
			s.owner.activate(btn)
		}),
	)

	s.widget.Show()

	out, err := s.result.await(ctx)
	if err != nil {
		return outcome[T]{}, err
	}
	return out, nil
}

// inject settles the session with an already-unwrapped result, used when
// a button action produces a value.
func (s *session[T]) inject(r Result[T]) {
	s.result.resolve(outcome[T]{direct: &r})
}

// dismiss settles the session as cancelled, used when a pending item
// load yields nothing.
func (s *session[T]) dismiss() {
	s.result.resolve(outcome[T]{})
}

// close tears the session down: subscriptions are released before the
// widget is hidden, so the hide we trigger ourselves cannot loop back in.
func (s *session[T]) close() {
	s.closed.Do(func() {
		for _, release := range s.releases {
			release()
		}
		s.releases = nil
		s.widget.Hide()
	})
}

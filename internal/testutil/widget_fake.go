// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// package testutil provides scriptable fakes for the external
// collaborators: the selection widget, the object store, the editor host
// and the confirmation dialogs.
package testutil

import (
	"sync"

	"github.com/toeirei/bucketpad/internal/prompt"
)

// FakeWidget is a scriptable prompt.Widget. Tests drive it by calling
// Accept, Dismiss, Type and PressButton, and assert on HideCount and
// SubscriberCount to catch double-hides and leaked subscriptions.
type FakeWidget[T any] struct {
	mu      sync.Mutex
	visible bool
	busy    bool
	enabled bool
	title   string
	filter  string
	items   []prompt.Item[T]
	active  int
	buttons []prompt.Button

	// HideCount increments each time a visible widget becomes hidden.
	HideCount int

	nextID     int
	acceptSubs map[int]func()
	hideSubs   map[int]func()
	buttonSubs map[int]func(prompt.Button)
	filterSubs map[int]func(string)
}

// NewFakeWidget returns an empty, enabled, hidden fake widget.
func NewFakeWidget[T any]() *FakeWidget[T] {
	return &FakeWidget[T]{
		enabled:    true,
		active:     -1,
		acceptSubs: map[int]func(){},
		hideSubs:   map[int]func(){},
		buttonSubs: map[int]func(prompt.Button){},
		filterSubs: map[int]func(string){},
	}
}

func (w *FakeWidget[T]) Show() {
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()
}

func (w *FakeWidget[T]) Hide() {
	w.mu.Lock()
	if !w.visible {
		w.mu.Unlock()
		return
	}
	w.visible = false
	w.HideCount++
	subs := snapshot(w.hideSubs)
	w.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func (w *FakeWidget[T]) SetItems(items []prompt.Item[T]) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var activeLabel string
	if w.active >= 0 && w.active < len(w.items) {
		activeLabel = w.items[w.active].Label
	}

	w.items = append([]prompt.Item[T](nil), items...)
	w.active = -1
	for i, it := range w.items {
		if activeLabel != "" && it.Label == activeLabel {
			w.active = i
			break
		}
	}
	if w.active < 0 && len(w.items) > 0 {
		w.active = 0
	}
}

func (w *FakeWidget[T]) Items() []prompt.Item[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]prompt.Item[T](nil), w.items...)
}

func (w *FakeWidget[T]) SetActive(item prompt.Item[T]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, it := range w.items {
		if it.Label == item.Label {
			w.active = i
			return
		}
	}
}

// ActiveItem returns the highlighted item, if any.
func (w *FakeWidget[T]) ActiveItem() (prompt.Item[T], bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active < 0 || w.active >= len(w.items) {
		var zero prompt.Item[T]
		return zero, false
	}
	return w.items[w.active], true
}

func (w *FakeWidget[T]) Selected() []prompt.Item[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active < 0 || w.active >= len(w.items) {
		return nil
	}
	return []prompt.Item[T]{w.items[w.active]}
}

func (w *FakeWidget[T]) SetBusy(busy bool) {
	w.mu.Lock()
	w.busy = busy
	w.mu.Unlock()
}

func (w *FakeWidget[T]) SetEnabled(enabled bool) {
	w.mu.Lock()
	w.enabled = enabled
	w.mu.Unlock()
}

func (w *FakeWidget[T]) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
}

func (w *FakeWidget[T]) SetButtons(buttons []prompt.Button) {
	w.mu.Lock()
	w.buttons = append([]prompt.Button(nil), buttons...)
	w.mu.Unlock()
}

func (w *FakeWidget[T]) FilterValue() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filter
}

func (w *FakeWidget[T]) SetFilterValue(value string) {
	w.mu.Lock()
	w.filter = value
	subs := snapshot(w.filterSubs)
	w.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

func (w *FakeWidget[T]) OnAccept(fn func()) func() {
	return register(w, w.acceptSubs, fn)
}

func (w *FakeWidget[T]) OnHide(fn func()) func() {
	return register(w, w.hideSubs, fn)
}

func (w *FakeWidget[T]) OnButton(fn func(prompt.Button)) func() {
	return register(w, w.buttonSubs, fn)
}

func (w *FakeWidget[T]) OnFilterChanged(fn func(string)) func() {
	return register(w, w.filterSubs, fn)
}

// Accept simulates the user accepting the current selection.
func (w *FakeWidget[T]) Accept() {
	w.mu.Lock()
	subs := snapshot(w.acceptSubs)
	w.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Dismiss simulates the user closing the widget (Escape, focus loss).
func (w *FakeWidget[T]) Dismiss() {
	w.Hide()
}

// Type simulates the user editing the free-text filter.
func (w *FakeWidget[T]) Type(text string) {
	w.SetFilterValue(text)
}

// PressButton simulates the user clicking a widget button.
func (w *FakeWidget[T]) PressButton(btn prompt.Button) {
	w.mu.Lock()
	subs := snapshot(w.buttonSubs)
	w.mu.Unlock()
	for _, fn := range subs {
		fn(btn)
	}
}

// Visible reports the widget's visibility flag.
func (w *FakeWidget[T]) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Busy reports the widget's busy flag.
func (w *FakeWidget[T]) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Enabled reports the widget's enabled flag.
func (w *FakeWidget[T]) Enabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enabled
}

// SubscriberCount returns how many event subscriptions are live across
// all event kinds. Zero after a prompt completes means nothing leaked.
func (w *FakeWidget[T]) SubscriberCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.acceptSubs) + len(w.hideSubs) + len(w.buttonSubs) + len(w.filterSubs)
}

func register[T any, F any](w *FakeWidget[T], subs map[int]F, fn F) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	subs[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(subs, id)
		w.mu.Unlock()
	}
}

func snapshot[F any](subs map[int]F) []F {
	out := make([]F, 0, len(subs))
	for _, fn := range subs {
		out = append(out, fn)
	}
	return out
}

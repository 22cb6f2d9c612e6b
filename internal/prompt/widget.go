// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package prompt

// Button identifies one action button rendered on the widget.
type Button struct {
	ID      string
	Tooltip string
}

// Widget is the interactive selection surface the prompt engine drives.
// The engine never renders anything itself; it installs items and flags
// on the widget and reacts to its events. Every On* registration returns
// a release function; firing events after release must be a no-op for
// that subscriber.
//
// Implementations live elsewhere (internal/tui provides the terminal
// one, internal/testutil a scriptable fake).
type Widget[T any] interface {
	// Show makes the widget visible and interactive.
	Show()
	// Hide dismisses the widget. Hiding an already hidden widget is a
	// no-op and must not fire another hide event.
	Hide()

	// SetItems replaces the list. Implementations keep the active item
	// when its label is still present and otherwise activate the first
	// entry, so a non-empty list always has exactly one active item.
	SetItems(items []Item[T])
	Items() []Item[T]

	// SetActive highlights the given item. Exactly one item is active
	// whenever the list is non-empty.
	SetActive(item Item[T])
	// Selected returns the items the user had selected at accept time.
	Selected() []Item[T]

	SetBusy(busy bool)
	SetEnabled(enabled bool)
	SetTitle(title string)
	SetButtons(buttons []Button)

	// FilterValue is the current free-text filter content.
	FilterValue() string
	SetFilterValue(value string)

	OnAccept(fn func()) (release func())
	OnHide(fn func()) (release func())
	OnButton(fn func(Button)) (release func())
	OnFilterChanged(fn func(value string)) (release func())
}

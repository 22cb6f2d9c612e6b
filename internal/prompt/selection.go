// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package prompt

import (
	"context"
	"sync"

	"github.com/toeirei/bucketpad/internal/logging"
)

// Loader produces the selection list asynchronously. Returning an empty
// or nil list means there is nothing to pick and the prompt dismisses
// itself as cancelled.
type Loader[T any] func(ctx context.Context) ([]Item[T], error)

var _ Prompter[struct{}] = (*SelectionPrompter[struct{}])(nil)

type promptState int

const (
	stateCreated promptState = iota
	stateShown
	stateResolved
)

// SelectionPrompter drives a selection widget to a single decision. It
// owns the item list (immediate or asynchronously loaded), the optional
// custom free-text entry and the unwrapping of deferred payloads.
//
// A SelectionPrompter is single-shot: Created -> Shown -> Resolved, with
// no re-entry.
type SelectionPrompter[T any] struct {
	base[T]

	loader Loader[T]

	itemMu       sync.Mutex
	items        []Item[T]
	state        promptState
	hasSynthetic bool
	lastResponse *Item[T]
	lastSet      bool

	customEnabled   bool
	customLabel     string
	customTransform func(string) Result[T]
}

// NewSelection builds a prompter over an immediate item list.
func NewSelection[T any](w Widget[T], items []Item[T]) *SelectionPrompter[T] {
	s := &SelectionPrompter[T]{items: items}
	s.widget = w
	return s
}

// NewPendingSelection builds a prompter whose items arrive later. The
// widget stays busy and disabled until the loader resolves; a loader
// that fails or yields nothing dismisses the prompt as cancelled.
func NewPendingSelection[T any](w Widget[T], loader Loader[T]) *SelectionPrompter[T] {
	s := &SelectionPrompter[T]{loader: loader}
	s.widget = w
	return s
}

// SetCustomInput enables a synthetic entry at the top of the list
// whenever the free-text filter is non-empty. Accepting it feeds the raw
// text through transform, installed ahead of any transforms already
// registered with After.
func (s *SelectionPrompter[T]) SetCustomInput(transform func(string) Result[T], label string) {
	s.itemMu.Lock()
	defer s.itemMu.Unlock()
	s.customEnabled = true
	s.customLabel = label
	s.customTransform = transform
}

// Prompt shows the widget and suspends until the user accepts, dismisses
// or a button action settles the prompt. The first selected item's
// payload is unwrapped (deferred producers are invoked here) and passed
// through the after-transforms.
func (s *SelectionPrompter[T]) Prompt(ctx context.Context) (Result[T], error) {
	s.itemMu.Lock()
	if s.state != stateCreated {
		s.itemMu.Unlock()
		return ResultCancelled[T](), ErrAlreadyPrompted
	}
	s.state = stateShown
	customEnabled := s.customEnabled
	s.itemMu.Unlock()

	sess := newSession[T](s.widget, s)
	s.setSession(sess)
	defer func() {
		s.setSession(nil)
		s.itemMu.Lock()
		s.state = stateResolved
		s.itemMu.Unlock()
	}()

	if customEnabled {
		release := s.widget.OnFilterChanged(func(text string) {
			s.syncCustomEntry(text)
		})
		defer release()
	}

	if s.loader != nil {
		s.widget.SetBusy(true)
		s.widget.SetEnabled(false)
		go func() {
			items, err := s.loader(ctx)
			if err != nil {
				// An asynchronous load failure dismisses the prompt like a
				// cancellation; surface it on the diagnostic channel so it
				// is not silently lost.
				logging.Errorf("selection items failed to load: %v", err)
				sess.dismiss()
				return
			}
			if len(items) == 0 {
				sess.dismiss()
				return
			}
			s.installItems(items)
			s.widget.SetBusy(false)
			s.widget.SetEnabled(true)
		}()
	} else {
		s.installItems(s.items)
	}

	out, err := sess.run(ctx)
	if err != nil {
		return ResultCancelled[T](), err
	}

	switch {
	case out.direct != nil:
		return s.finish(*out.direct), nil
	case len(out.items) == 0:
		return ResultCancelled[T](), nil
	}

	first := out.items[0]
	if first.Data.IsCustomInput() {
		// The synthetic entry's description carries the typed text.
		s.itemMu.Lock()
		transform := s.customTransform
		s.itemMu.Unlock()
		return s.finish(transform(first.Description)), nil
	}

	res, err := first.Data.Resolve(ctx)
	if err != nil {
		return ResultCancelled[T](), err
	}
	return s.finish(res), nil
}

// SetLastResponse re-applies a previously selected item as the active
// highlight when the dialog is re-entered. A custom-input response
// restores the typed text instead. When the item is absent the first
// entry becomes active, so the widget never shows zero active entries
// while entries exist.
//
// Callable before Prompt: a response recorded while the widget is still
// empty is applied as soon as the items are installed, including lists
// that arrive from a loader.
func (s *SelectionPrompter[T]) SetLastResponse(item *Item[T]) {
	if item != nil && item.Data.IsCustomInput() {
		s.widget.SetFilterValue(item.Description)
		return
	}

	s.itemMu.Lock()
	s.lastResponse = item
	s.lastSet = true
	s.itemMu.Unlock()

	if len(s.widget.Items()) > 0 {
		s.applyLastResponse()
	}
}

// applyLastResponse moves the highlight to the recorded response, or to
// the first entry when the response is nil or no longer present.
func (s *SelectionPrompter[T]) applyLastResponse() {
	s.itemMu.Lock()
	set := s.lastSet
	item := s.lastResponse
	s.itemMu.Unlock()
	if !set {
		return
	}

	items := s.widget.Items()
	if item != nil {
		for _, candidate := range items {
			if candidate.Label == item.Label {
				s.widget.SetActive(candidate)
				return
			}
		}
	}
	if len(items) > 0 {
		s.widget.SetActive(items[0])
	}
}

// installItems records the real item list and pushes it to the widget,
// honoring a custom entry that may already be active and a last
// response recorded before the items existed.
func (s *SelectionPrompter[T]) installItems(items []Item[T]) {
	s.itemMu.Lock()
	s.items = items
	s.itemMu.Unlock()
	s.syncCustomEntry(s.widget.FilterValue())
	s.applyLastResponse()
}

// syncCustomEntry prepends or removes the synthetic free-text entry as
// the filter becomes non-empty or empty, keeping its description in step
// with the typed text.
func (s *SelectionPrompter[T]) syncCustomEntry(text string) {
	s.itemMu.Lock()
	enabled := s.customEnabled
	real := make([]Item[T], len(s.items))
	copy(real, s.items)
	hadSynthetic := s.hasSynthetic
	wantSynthetic := enabled && text != ""
	s.hasSynthetic = wantSynthetic
	label := s.customLabel
	s.itemMu.Unlock()

	if !wantSynthetic {
		s.widget.SetItems(real)
		if hadSynthetic && len(real) > 0 {
			s.widget.SetActive(real[0])
		}
		return
	}

	synthetic := Item[T]{
		Label:       label,
		Description: text,
		AlwaysShow:  true,
		Data:        customInput[T](),
	}
	s.widget.SetItems(append([]Item[T]{synthetic}, real...))
	if !hadSynthetic {
		s.widget.SetActive(synthetic)
	}
}

// finish applies the after-transforms to value results. Signals and
// cancellations are returned as-is.
func (s *SelectionPrompter[T]) finish(res Result[T]) Result[T] {
	if _, ok := res.Value(); !ok {
		return res
	}
	return s.applyAfter(res)
}

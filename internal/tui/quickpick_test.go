// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/toeirei/bucketpad/internal/prompt"
)

var _ prompt.Widget[int] = (*QuickPick[int])(nil)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pickWithItems(labels ...string) *QuickPick[string] {
	q := NewQuickPick[string]()
	items := make([]prompt.Item[string], 0, len(labels))
	for _, l := range labels {
		items = append(items, prompt.NewItem(l, l))
	}
	q.SetItems(items)
	q.Show()
	return q
}

func TestSetItemsKeepsActiveByLabel(t *testing.T) {
	q := pickWithItems("alpha", "beta", "gamma")
	q.SetActive(q.Items()[1]) // beta

	q.SetItems([]prompt.Item[string]{
		prompt.NewItem("gamma", "gamma"),
		prompt.NewItem("beta", "beta"),
	})

	sel := q.Selected()
	if len(sel) != 1 || sel[0].Label != "beta" {
		t.Fatalf("active item not kept by label, got %+v", sel)
	}

	// Label gone entirely: first entry takes over.
	q.SetItems([]prompt.Item[string]{
		prompt.NewItem("delta", "delta"),
	})
	sel = q.Selected()
	if len(sel) != 1 || sel[0].Label != "delta" {
		t.Fatalf("expected first entry active after label vanished, got %+v", sel)
	}
}

func TestTypingUpdatesFilterAndNotifies(t *testing.T) {
	q := pickWithItems("alpha", "beta")
	var got []string
	release := q.OnFilterChanged(func(v string) { got = append(got, v) })
	defer release()

	q.Update(keyRunes("a"))
	q.Update(keyRunes("b"))

	if q.FilterValue() != "ab" {
		t.Fatalf("filter value = %q, want ab", q.FilterValue())
	}
	if len(got) != 2 || got[1] != "ab" {
		t.Fatalf("filter events = %v", got)
	}
}

func TestEnterFiresAcceptAndReleaseStopsIt(t *testing.T) {
	q := pickWithItems("alpha")
	accepts := 0
	release := q.OnAccept(func() { accepts++ })

	q.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if accepts != 1 {
		t.Fatalf("accepts = %d, want 1", accepts)
	}

	release()
	q.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if accepts != 1 {
		t.Fatalf("released subscriber still fired, accepts = %d", accepts)
	}
}

func TestEscapeHidesExactlyOnce(t *testing.T) {
	q := pickWithItems("alpha")
	hides := 0
	q.OnHide(func() { hides++ })

	q.Update(tea.KeyMsg{Type: tea.KeyEsc})
	q.Update(tea.KeyMsg{Type: tea.KeyEsc}) // hidden, ignored
	q.Hide()                               // already hidden, no-op

	if hides != 1 {
		t.Fatalf("hide events = %d, want 1", hides)
	}
}

func TestArrowKeysMoveOverFilteredItems(t *testing.T) {
	q := pickWithItems("alpha", "beta", "another")

	q.SetFilterValue("an") // only "another" matches
	q.Update(tea.KeyMsg{Type: tea.KeyDown})

	sel := q.Selected()
	if len(sel) != 1 || sel[0].Label != "another" {
		t.Fatalf("movement left the filtered view, got %+v", sel)
	}
}

func TestFunctionKeyActivatesButton(t *testing.T) {
	q := pickWithItems("alpha")
	q.SetButtons([]prompt.Button{
		{ID: "copy", Tooltip: "copy uri"},
		{ID: "edit", Tooltip: "open editable"},
	})

	var pressed []string
	q.OnButton(func(b prompt.Button) { pressed = append(pressed, b.ID) })

	q.Update(tea.KeyMsg{Type: tea.KeyF2})
	q.Update(tea.KeyMsg{Type: tea.KeyF1})

	if len(pressed) != 2 || pressed[0] != "edit" || pressed[1] != "copy" {
		t.Fatalf("button presses = %v", pressed)
	}
}

func TestFunctionKeyNamesPastNine(t *testing.T) {
	tests := []struct {
		i    int
		want string
	}{
		{0, "f1"},
		{8, "f9"},
		{9, "f10"},
		{11, "f12"},
	}
	for _, tt := range tests {
		if got := fKeyName(tt.i); got != tt.want {
			t.Fatalf("fKeyName(%d) = %q, want %q", tt.i, got, tt.want)
		}
	}

	q := pickWithItems("alpha")
	buttons := make([]prompt.Button, 10)
	for i := range buttons {
		buttons[i] = prompt.Button{ID: "b" + fKeyName(i)}
	}
	q.SetButtons(buttons)

	var pressed []string
	q.OnButton(func(b prompt.Button) { pressed = append(pressed, b.ID) })
	q.Update(tea.KeyMsg{Type: tea.KeyF10})

	if len(pressed) != 1 || pressed[0] != "bf10" {
		t.Fatalf("expected tenth button to fire on f10, got %v", pressed)
	}
}

func TestDisabledWidgetIgnoresInput(t *testing.T) {
	q := pickWithItems("alpha")
	accepts := 0
	q.OnAccept(func() { accepts++ })

	q.SetEnabled(false)
	q.Update(tea.KeyMsg{Type: tea.KeyEnter})
	q.Update(keyRunes("x"))

	if accepts != 0 {
		t.Fatal("disabled widget must swallow accept")
	}
	if q.FilterValue() != "" {
		t.Fatalf("disabled widget must swallow typing, filter = %q", q.FilterValue())
	}
}

func TestViewRendersTitleItemsAndButtons(t *testing.T) {
	q := pickWithItems("alpha", "beta")
	q.SetTitle("pick a file")
	q.SetButtons([]prompt.Button{{ID: "copy", Tooltip: "copy uri"}})

	out := q.View()
	for _, want := range []string{"pick a file", "alpha", "beta", "copy uri"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}

	q.Hide()
	if q.View() != "" {
		t.Fatal("hidden widget must render nothing")
	}
}

// The widget and the prompt engine against each other, no fakes.
func TestQuickPickDrivesSelectionPrompter(t *testing.T) {
	q := NewQuickPick[string]()
	p := prompt.NewSelection(q, []prompt.Item[string]{
		prompt.NewItem("alpha", "alpha"),
		prompt.NewItem("beta", "beta"),
	})

	type outcome struct {
		res prompt.Result[string]
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := p.Prompt(context.Background())
		done <- outcome{res, err}
	}()

	// Wait for the session to show the widget, then pick the second row.
	deadline := time.After(2 * time.Second)
	for len(q.Items()) == 0 {
		select {
		case <-deadline:
			t.Fatal("widget never received items")
		case <-time.After(time.Millisecond):
		}
	}
	q.Update(tea.KeyMsg{Type: tea.KeyDown})
	q.Update(tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case o := <-done:
		if o.err != nil {
			t.Fatalf("prompt failed: %v", o.err)
		}
		v, ok := o.res.Value()
		if !ok || v != "beta" {
			t.Fatalf("expected beta, got %+v", o.res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("prompt did not settle")
	}
}

// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui implements the terminal surfaces for bucketpad: the quick
// pick selection widget driven by the prompt engine, the bucket browser
// built on top of it, and progress rendering for transfers.
package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/toeirei/bucketpad/internal/prompt"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).PaddingLeft(2)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// maxVisibleRows caps the rendered list; the active row is kept in view.
const maxVisibleRows = 12

// QuickPick is the terminal selection widget. The prompt engine drives it
// through the Widget interface while bubbletea feeds it key events, so all
// state is guarded by a mutex. Pointer receivers keep the identity stable
// across Update calls.
type QuickPick[T any] struct {
	mu sync.Mutex

	input   textinput.Model
	spin    spinner.Model
	title   string
	items   []prompt.Item[T]
	active  int
	buttons []prompt.Button
	visible bool
	busy    bool
	enabled bool

	nextSub  int
	onAccept map[int]func()
	onHide   map[int]func()
	onButton map[int]func(prompt.Button)
	onFilter map[int]func(string)

	// notify requests a repaint from the owning program after an
	// imperative mutation. nil outside a running program.
	notify func()
}

// NewQuickPick returns a hidden, enabled widget with an empty list.
func NewQuickPick[T any]() *QuickPick[T] {
	input := textinput.New()
	input.Placeholder = "type to filter"
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &QuickPick[T]{
		input:    input,
		spin:     spin,
		enabled:  true,
		onAccept: map[int]func(){},
		onHide:   map[int]func(){},
		onButton: map[int]func(prompt.Button){},
		onFilter: map[int]func(string){},
	}
}

// SetNotify installs the repaint callback used by the owning program.
func (q *QuickPick[T]) SetNotify(fn func()) {
	q.mu.Lock()
	q.notify = fn
	q.mu.Unlock()
}

func (q *QuickPick[T]) repaint() {
	if q.notify != nil {
		q.notify()
	}
}

// Show makes the widget visible and interactive.
func (q *QuickPick[T]) Show() {
	q.mu.Lock()
	q.visible = true
	q.repaint()
	q.mu.Unlock()
}

// Hide dismisses the widget and tells subscribers once. Hiding a hidden
// widget is a no-op.
func (q *QuickPick[T]) Hide() {
	q.mu.Lock()
	if !q.visible {
		q.mu.Unlock()
		return
	}
	q.visible = false
	subs := snapshotSubs(q.onHide)
	q.repaint()
	q.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// SetItems replaces the list. The active item survives the swap when an
// entry with the same label is still present; otherwise the first entry
// becomes active.
func (q *QuickPick[T]) SetItems(items []prompt.Item[T]) {
	q.mu.Lock()
	var activeLabel string
	if q.active >= 0 && q.active < len(q.items) {
		activeLabel = q.items[q.active].Label
	}
	q.items = items
	q.active = 0
	for i, it := range items {
		if activeLabel != "" && it.Label == activeLabel {
			q.active = i
			break
		}
	}
	q.repaint()
	q.mu.Unlock()
}

// Items returns the current list.
func (q *QuickPick[T]) Items() []prompt.Item[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]prompt.Item[T](nil), q.items...)
}

// SetActive highlights the item with the given label.
func (q *QuickPick[T]) SetActive(item prompt.Item[T]) {
	q.mu.Lock()
	for i, it := range q.items {
		if it.Label == item.Label {
			q.active = i
			break
		}
	}
	q.repaint()
	q.mu.Unlock()
}

// Selected returns the active item, if any.
func (q *QuickPick[T]) Selected() []prompt.Item[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.active < 0 || q.active >= len(q.items) {
		return nil
	}
	return []prompt.Item[T]{q.items[q.active]}
}

func (q *QuickPick[T]) SetBusy(busy bool) {
	q.mu.Lock()
	q.busy = busy
	q.repaint()
	q.mu.Unlock()
}

func (q *QuickPick[T]) SetEnabled(enabled bool) {
	q.mu.Lock()
	q.enabled = enabled
	q.repaint()
	q.mu.Unlock()
}

func (q *QuickPick[T]) SetTitle(title string) {
	q.mu.Lock()
	q.title = title
	q.repaint()
	q.mu.Unlock()
}

func (q *QuickPick[T]) SetButtons(buttons []prompt.Button) {
	q.mu.Lock()
	q.buttons = buttons
	q.repaint()
	q.mu.Unlock()
}

// FilterValue returns the current free-text filter content.
func (q *QuickPick[T]) FilterValue() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.input.Value()
}

// SetFilterValue replaces the typed text and fires the filter event.
func (q *QuickPick[T]) SetFilterValue(value string) {
	q.mu.Lock()
	q.input.SetValue(value)
	q.input.CursorEnd()
	subs := snapshotFilterSubs(q.onFilter)
	q.repaint()
	q.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

func (q *QuickPick[T]) OnAccept(fn func()) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.nextSub
	q.nextSub++
	q.onAccept[id] = fn
	return func() {
		q.mu.Lock()
		delete(q.onAccept, id)
		q.mu.Unlock()
	}
}

func (q *QuickPick[T]) OnHide(fn func()) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.nextSub
	q.nextSub++
	q.onHide[id] = fn
	return func() {
		q.mu.Lock()
		delete(q.onHide, id)
		q.mu.Unlock()
	}
}

func (q *QuickPick[T]) OnButton(fn func(prompt.Button)) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.nextSub
	q.nextSub++
	q.onButton[id] = fn
	return func() {
		q.mu.Lock()
		delete(q.onButton, id)
		q.mu.Unlock()
	}
}

func (q *QuickPick[T]) OnFilterChanged(fn func(string)) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.nextSub
	q.nextSub++
	q.onFilter[id] = fn
	return func() {
		q.mu.Lock()
		delete(q.onFilter, id)
		q.mu.Unlock()
	}
}

func snapshotSubs(m map[int]func()) []func() {
	out := make([]func(), 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	return out
}

func snapshotFilterSubs(m map[int]func(string)) []func(string) {
	out := make([]func(string), 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	return out
}

func snapshotButtonSubs(m map[int]func(prompt.Button)) []func(prompt.Button) {
	out := make([]func(prompt.Button), 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	return out
}

func (q *QuickPick[T]) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key events. Arrow keys move over the filtered view,
// enter accepts, esc dismisses, function keys activate buttons, anything
// else edits the filter text.
func (q *QuickPick[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		q.mu.Lock()
		q.spin, cmd = q.spin.Update(msg)
		q.mu.Unlock()
		return q, cmd
	}

	q.mu.Lock()
	if !q.visible || !q.enabled {
		q.mu.Unlock()
		return q, nil
	}

	switch keyMsg.String() {
	case "up", "ctrl+p":
		q.moveActiveLocked(-1)
		q.mu.Unlock()
		return q, nil
	case "down", "ctrl+n":
		q.moveActiveLocked(1)
		q.mu.Unlock()
		return q, nil
	case "enter":
		subs := snapshotSubs(q.onAccept)
		q.mu.Unlock()
		for _, fn := range subs {
			fn()
		}
		return q, nil
	case "esc", "ctrl+c":
		q.mu.Unlock()
		q.Hide()
		return q, nil
	}

	if btn, ok := q.buttonForKeyLocked(keyMsg.String()); ok {
		subs := snapshotButtonSubs(q.onButton)
		q.mu.Unlock()
		for _, fn := range subs {
			fn(btn)
		}
		return q, nil
	}

	before := q.input.Value()
	var cmd tea.Cmd
	q.input, cmd = q.input.Update(msg)
	after := q.input.Value()
	var subs []func(string)
	if after != before {
		subs = snapshotFilterSubs(q.onFilter)
	}
	q.mu.Unlock()

	for _, fn := range subs {
		fn(after)
	}
	return q, cmd
}

// buttonForKeyLocked maps f1..fn onto the configured buttons in order.
func (q *QuickPick[T]) buttonForKeyLocked(key string) (prompt.Button, bool) {
	if !strings.HasPrefix(key, "f") {
		return prompt.Button{}, false
	}
	for i, b := range q.buttons {
		if key == fKeyName(i) {
			return b, true
		}
	}
	return prompt.Button{}, false
}

func fKeyName(i int) string {
	return "f" + strconv.Itoa(i+1)
}

// moveActiveLocked steps the active row over the visible (filtered) items.
func (q *QuickPick[T]) moveActiveLocked(delta int) {
	visible := q.visibleIndexesLocked()
	if len(visible) == 0 {
		return
	}
	pos := 0
	for i, idx := range visible {
		if idx == q.active {
			pos = i
			break
		}
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(visible) {
		pos = len(visible) - 1
	}
	q.active = visible[pos]
}

// visibleIndexesLocked returns the item indexes that pass the filter.
// AlwaysShow entries bypass it; matching is a case-insensitive substring
// test against the label.
func (q *QuickPick[T]) visibleIndexesLocked() []int {
	filter := strings.ToLower(q.input.Value())
	var out []int
	for i, it := range q.items {
		if it.AlwaysShow || filter == "" ||
			strings.Contains(strings.ToLower(it.Label), filter) {
			out = append(out, i)
		}
	}
	return out
}

func (q *QuickPick[T]) View() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.visible {
		return ""
	}

	var b strings.Builder
	if q.title != "" {
		b.WriteString(titleStyle.Render(q.title))
		b.WriteString("\n")
	}
	if q.busy {
		b.WriteString(q.spin.View())
		b.WriteString(" ")
	}
	b.WriteString(q.input.View())
	b.WriteString("\n")

	style := func(s lipgloss.Style) lipgloss.Style {
		if !q.enabled {
			return disabledStyle
		}
		return s
	}

	visible := q.visibleIndexesLocked()
	start := 0
	for i, idx := range visible {
		if idx == q.active && i >= maxVisibleRows {
			start = i - maxVisibleRows + 1
		}
	}
	for i := start; i < len(visible) && i < start+maxVisibleRows; i++ {
		it := q.items[visible[i]]
		line := "  " + it.Label
		if visible[i] == q.active {
			line = "> " + it.Label
			b.WriteString(style(activeStyle).Render(line))
		} else {
			b.WriteString(style(lipgloss.NewStyle()).Render(line))
		}
		if it.Description != "" {
			b.WriteString(" ")
			b.WriteString(dimStyle.Render(it.Description))
		}
		b.WriteString("\n")
		if visible[i] == q.active && it.Detail != "" {
			b.WriteString(detailStyle.Render(it.Detail))
			b.WriteString("\n")
		}
	}
	if len(visible) == 0 && !q.busy {
		b.WriteString(dimStyle.Render("  no matches"))
		b.WriteString("\n")
	}

	if len(q.buttons) > 0 {
		var hints []string
		for i, btn := range q.buttons {
			hints = append(hints, fKeyName(i)+" "+btn.Tooltip)
		}
		b.WriteString(dimStyle.Render(strings.Join(hints, "  ")))
		b.WriteString("\n")
	}
	return b.String()
}

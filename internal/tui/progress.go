// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/toeirei/bucketpad/internal/vfs"
)

var progressLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

// TermProgress renders transfer progress to a terminal writer. Prominent
// transfers get a full progress bar, lightweight ones a single spinner-free
// status line. Rendering uses carriage returns, so the writer should be a
// terminal; redirecting it just yields one line per update batch.
type TermProgress struct {
	mu  sync.Mutex
	out io.Writer
	bar progress.Model
}

// NewTermProgress writes progress to out (typically os.Stderr).
func NewTermProgress(out io.Writer) *TermProgress {
	return &TermProgress{
		out: out,
		bar: progress.New(progress.WithDefaultGradient()),
	}
}

// Start begins one transfer. The returned update function accepts
// cumulative byte counts; done erases the line.
func (t *TermProgress) Start(label string, style vfs.ProgressStyle, total int64) (func(int64), func()) {
	if style != vfs.ProgressProminent {
		return func(int64) {}, func() {}
	}

	render := func(transferred int64) {
		t.mu.Lock()
		defer t.mu.Unlock()
		line := progressLabelStyle.Render(label) + " "
		if total > 0 {
			line += t.bar.ViewAs(ratio(transferred, total))
		} else {
			line += fmt.Sprintf("%s transferred", byteCount(transferred))
		}
		fmt.Fprint(t.out, "\r"+line)
	}

	render(0)
	return render, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		fmt.Fprint(t.out, "\r"+strings.Repeat(" ", 64)+"\r")
	}
}

func ratio(transferred, total int64) float64 {
	if total <= 0 {
		return 0
	}
	r := float64(transferred) / float64(total)
	if r > 1 {
		r = 1
	}
	return r
}

// byteCount formats a byte total for humans.
func byteCount(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/toeirei/bucketpad/internal/i18n"
	"github.com/toeirei/bucketpad/internal/logging"
	"github.com/toeirei/bucketpad/internal/model"
	"github.com/toeirei/bucketpad/internal/prompt"
	"github.com/toeirei/bucketpad/internal/remote"
	"github.com/toeirei/bucketpad/internal/tabs"
)

// errQuit marks a user-initiated exit from the browser loop.
var errQuit = errors.New("tui: browser dismissed")

// Browser is the interactive bucket browser. Each round runs a quick
// pick over the bucket listing; accepting an entry opens it through the
// tab manager and the loop resumes when the document closes.
type Browser struct {
	Store   remote.Store
	Manager *tabs.Manager
	Editors tabs.EditorHost
	Bucket  string
	Region  string

	mu       sync.Mutex
	editNext bool
}

// Run drives the browse loop until the user dismisses the picker or the
// context ends.
func (b *Browser) Run(ctx context.Context) error {
	for {
		file, edit, err := b.pickOne(ctx)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}

		closed := b.watchForClose(file)
		if edit {
			err = b.Manager.OpenInEditMode(ctx, file)
		} else {
			err = b.Manager.OpenInReadMode(ctx, file)
		}
		if err != nil {
			closed.release()
			if errors.Is(err, tabs.ErrCancelled) {
				continue
			}
			logging.Errorf("could not open %s: %v", file.DisplayPath(), err)
			continue
		}
		closed.wait(ctx)
		closed.release()
	}
}

// pickOne runs one quick pick session inside its own bubbletea program
// and reports the chosen file, plus whether the edit button picked it.
func (b *Browser) pickOne(ctx context.Context) (model.RemoteFile, bool, error) {
	b.mu.Lock()
	b.editNext = false
	b.mu.Unlock()

	pick := NewQuickPick[model.RemoteFile]()
	prompter := prompt.NewPendingSelection(pick, b.loadItems)
	prompter.SetTitle(i18n.T("browse.title", b.Bucket))

	prompter.SetCustomInput(func(text string) prompt.Result[model.RemoteFile] {
		return prompt.ResultOf(model.NewRemoteFile(model.Identity{
			Bucket: b.Bucket,
			Key:    text,
			Region: b.Region,
		}))
	}, i18n.T("browse.open_key"))

	prompter.AddButton(prompt.Button{ID: "copy-uri", Tooltip: i18n.T("browse.copy_uri")},
		func() (prompt.Result[model.RemoteFile], bool) {
			b.copySelectedURI(pick)
			return prompt.Result[model.RemoteFile]{}, false
		})
	prompter.AddButton(prompt.Button{ID: "open-edit", Tooltip: i18n.T("browse.open_editable")},
		func() (prompt.Result[model.RemoteFile], bool) {
			sel := pick.Selected()
			if len(sel) == 0 || sel[0].Data.IsCustomInput() {
				return prompt.Result[model.RemoteFile]{}, false
			}
			res, err := sel[0].Data.Resolve(context.Background())
			if err != nil {
				logging.Errorf("could not resolve selection: %v", err)
				return prompt.Result[model.RemoteFile]{}, false
			}
			b.mu.Lock()
			b.editNext = true
			b.mu.Unlock()
			return res, true
		})

	program := tea.NewProgram(&browseModel{pick: pick}, tea.WithContext(ctx))
	pick.SetNotify(func() { program.Send(repaintMsg{}) })

	type outcome struct {
		res prompt.Result[model.RemoteFile]
		err error
	}
	resCh := make(chan outcome, 1)
	go func() {
		res, err := prompter.Prompt(ctx)
		resCh <- outcome{res, err}
		program.Quit()
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return model.RemoteFile{}, false, fmt.Errorf("browser failed: %w", err)
	}

	out := <-resCh
	if out.err != nil {
		return model.RemoteFile{}, false, out.err
	}
	file, ok := out.res.Value()
	if !ok {
		return model.RemoteFile{}, false, errQuit
	}

	b.mu.Lock()
	edit := b.editNext
	b.mu.Unlock()
	return file, edit, nil
}

// loadItems lists the bucket for the picker.
func (b *Browser) loadItems(ctx context.Context) ([]prompt.Item[model.RemoteFile], error) {
	files, err := b.Store.List(ctx, b.Bucket, "")
	if err != nil {
		return nil, fmt.Errorf("could not list bucket %s: %w", b.Bucket, err)
	}
	items := make([]prompt.Item[model.RemoteFile], 0, len(files))
	for _, f := range files {
		item := prompt.NewItem(f.Identity.Key, f)
		if f.SizeKnown() {
			item.Description = byteCount(f.SizeBytes)
		}
		item.Detail = f.DisplayPath()
		items = append(items, item)
	}
	return items, nil
}

func (b *Browser) copySelectedURI(pick *QuickPick[model.RemoteFile]) {
	sel := pick.Selected()
	if len(sel) == 0 || sel[0].Data.IsCustomInput() {
		return
	}
	res, err := sel[0].Data.Resolve(context.Background())
	if err != nil {
		return
	}
	file, ok := res.Value()
	if !ok {
		return
	}
	uri := model.URIFor(file.Identity, model.ModeRead)
	if err := clipboard.WriteAll(uri.String()); err != nil {
		logging.Debugf("clipboard unavailable: %v", err)
	}
}

// closeWatch waits for a specific resource's tabs to go away again.
type closeWatch struct {
	ch      chan struct{}
	release func()
}

func (w closeWatch) wait(ctx context.Context) {
	select {
	case <-w.ch:
	case <-ctx.Done():
	}
}

// watchForClose subscribes before the open so the close of either mode's
// document is never missed.
func (b *Browser) watchForClose(file model.RemoteFile) closeWatch {
	ch := make(chan struct{}, 1)
	var once sync.Once
	release := b.Editors.OnDocumentClosed(func(uri *url.URL) {
		id, _, err := model.ParseURI(uri)
		if err != nil || id != file.Identity {
			return
		}
		once.Do(func() { close(ch) })
	})
	return closeWatch{ch: ch, release: release}
}

type repaintMsg struct{}

// browseModel adapts the quick pick to a standalone bubbletea program.
type browseModel struct {
	pick *QuickPick[model.RemoteFile]
}

func (m *browseModel) Init() tea.Cmd {
	return m.pick.Init()
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(repaintMsg); ok {
		return m, nil
	}
	_, cmd := m.pick.Update(msg)
	return m, cmd
}

func (m *browseModel) View() string {
	return m.pick.View()
}

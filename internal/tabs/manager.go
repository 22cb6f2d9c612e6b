// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package tabs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/toeirei/bucketpad/internal/logging"
	"github.com/toeirei/bucketpad/internal/model"
	"github.com/toeirei/bucketpad/internal/remote"
	"github.com/toeirei/bucketpad/internal/state"
	"github.com/toeirei/bucketpad/internal/telemetry"
	"github.com/toeirei/bucketpad/internal/vfs"
)

// Options carries the collaborators a Manager needs.
type Options struct {
	Store    remote.Store
	Host     vfs.Host
	Editors  EditorHost
	Confirm  Confirmer
	Settings Settings
	Recorder telemetry.Recorder
	Cache    *state.Cache         // optional
	Progress vfs.ProgressReporter // optional
}

// Manager owns the tab and provider registries for remote files. All
// state transitions for one resource identity are serialized, so there
// is never an interval where two tabs for the same resource are both
// registered.
type Manager struct {
	store    remote.Store
	host     vfs.Host
	editors  EditorHost
	confirm  Confirmer
	settings Settings
	recorder telemetry.Recorder
	cache    *state.Cache
	progress vfs.ProgressReporter

	mu        sync.Mutex
	tabs      *tabRegistry
	providers *providerRegistry

	warnMu sync.Mutex
	warned bool // edit warning already shown this session

	locks        *keyedMutex
	releaseClose func()
	disposeOnce  sync.Once
}

// NewManager builds a manager and subscribes to document-close events so
// the registries stay consistent with the actual UI state.
func NewManager(opts Options) *Manager {
	m := &Manager{
		store:     opts.Store,
		host:      opts.Host,
		editors:   opts.Editors,
		confirm:   opts.Confirm,
		settings:  opts.Settings,
		recorder:  opts.Recorder,
		cache:     opts.Cache,
		progress:  opts.Progress,
		tabs:      newTabRegistry(),
		providers: newProviderRegistry(),
		locks:     newKeyedMutex(),
	}
	if m.recorder == nil {
		m.recorder = telemetry.Nop{}
	}
	m.releaseClose = m.editors.OnDocumentClosed(m.onDocumentClosed)
	return m
}

// OpenInReadMode opens the file in a read-only preview. Content the
// preview surface cannot render is delegated to edit mode. An already
// open tab for the resource, in either mode, is refocused instead.
func (m *Manager) OpenInReadMode(ctx context.Context, file model.RemoteFile) error {
	if !model.IsTextRenderable(file.Name) {
		logging.Debugf("%s is not text renderable, delegating to edit mode", file.DisplayPath())
		return m.OpenInEditMode(ctx, file)
	}

	unlock := m.locks.lock(file.Identity)
	defer unlock()

	m.mu.Lock()
	existing, ok := m.tabs.lookup(file.Identity)
	m.mu.Unlock()
	if ok {
		if existing.editor != nil {
			if err := existing.editor.Focus(); err != nil {
				logging.Warnf("could not refocus tab for %s: %v", file.DisplayPath(), err)
			}
		}
		return nil
	}

	if err := m.confirmSize(ctx, file); err != nil {
		return err
	}

	return m.createTab(ctx, file, model.ModeRead)
}

// OpenInEditMode opens the file in an editable document, disposing any
// existing tab for the resource first. Re-opening a resource already in
// edit mode is a no-op.
func (m *Manager) OpenInEditMode(ctx context.Context, file model.RemoteFile) error {
	unlock := m.locks.lock(file.Identity)
	defer unlock()

	m.mu.Lock()
	existing, ok := m.tabs.lookup(file.Identity)
	m.mu.Unlock()
	if ok {
		if existing.Mode == model.ModeEdit {
			return nil
		}
		// Strict ordering: the old tab's resources are fully released
		// before anything for the new tab is created.
		m.disposeTab(existing, true)
	}

	if err := m.maybeWarnEdit(ctx, file); err != nil {
		return err
	}
	if err := m.confirmSize(ctx, file); err != nil {
		return err
	}

	return m.createTab(ctx, file, model.ModeEdit)
}

// OpenEditURI opens an editable document for a resource addressed only
// by its virtual URI. A tab must already be active for the resource;
// a bare URI carries no metadata to open from.
func (m *Manager) OpenEditURI(ctx context.Context, uri *url.URL) error {
	id, _, err := model.ParseURI(uri)
	if err != nil {
		return err
	}

	m.mu.Lock()
	tab, ok := m.tabs.lookup(id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoActiveTab, uri)
	}

	return m.OpenInEditMode(ctx, tab.File)
}

// ActiveTab returns the open tab for the resource, if any.
func (m *Manager) ActiveTab(id model.Identity) (*Tab, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tabs.lookup(id)
}

// TabCount reports how many tabs are registered.
func (m *Manager) TabCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tabs.len()
}

// ProviderCount reports how many providers are registered.
func (m *Manager) ProviderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.providers.len()
}

// Dispose tears down all tabs and providers concurrently, best effort,
// then releases the document-close subscription.
func (m *Manager) Dispose() error {
	var errs []error
	m.disposeOnce.Do(func() {
		m.mu.Lock()
		tabs := m.tabs.snapshot()
		records := m.providers.snapshot()
		m.tabs.clear()
		m.providers.clear()
		m.mu.Unlock()

		var wg sync.WaitGroup
		errCh := make(chan error, len(tabs)+2*len(records))

		for _, tab := range tabs {
			if tab.editor == nil {
				continue
			}
			wg.Add(1)
			go func(t *Tab) {
				defer wg.Done()
				_ = t.editor.Focus()
				if err := t.editor.Close(); err != nil {
					errCh <- fmt.Errorf("closing %s: %w", t.File.DisplayPath(), err)
				}
			}(tab)
		}
		for _, rec := range records {
			wg.Add(1)
			go func(r providerRecord) {
				defer wg.Done()
				if err := r.reg.Dispose(); err != nil {
					errCh <- err
				}
				if err := r.provider.Dispose(); err != nil {
					errCh <- err
				}
			}(rec)
		}
		wg.Wait()
		close(errCh)
		for err := range errCh {
			logging.Warnf("disposal error: %v", err)
			errs = append(errs, err)
		}

		m.releaseClose()
	})
	return errors.Join(errs...)
}

// createTab registers a provider, opens the surface for the requested
// mode and records the tab. Called with the identity lock held and no
// existing tab for the identity.
func (m *Manager) createTab(ctx context.Context, file model.RemoteFile, mode model.TabMode) error {
	uri := model.URIFor(file.Identity, mode)
	key := m.host.KeyFor(uri)

	// A record may already exist for this key when an earlier tab's
	// surface had no closable handle and its provider was left
	// registered. Reuse it; registering a second provider for the same
	// key would be rejected by the host.
	m.mu.Lock()
	rec, reused := m.providers.lookup(key)
	m.mu.Unlock()

	if !reused {
		provider := vfs.NewRemoteProvider(file, m.store, m.recorder, m.cache, m.progress)
		reg, err := m.host.RegisterProvider(uri, provider)
		if err != nil {
			_ = provider.Dispose()
			return fmt.Errorf("could not register provider for %s: %w", file.DisplayPath(), err)
		}
		rec = providerRecord{provider: provider, reg: reg}
	}

	var handle EditorHandle
	var err error
	if mode == model.ModeEdit {
		handle, err = m.editors.OpenEditor(ctx, uri, file.DisplayPath())
	} else {
		handle, err = m.editors.OpenPreview(ctx, uri, file.DisplayPath())
	}
	if err != nil {
		if !reused {
			_ = rec.reg.Dispose()
			_ = rec.provider.Dispose()
		}
		return fmt.Errorf("could not open %s surface for %s: %w", mode, file.DisplayPath(), err)
	}

	m.mu.Lock()
	m.tabs.insert(&Tab{
		Mode:        mode,
		File:        file,
		URI:         uri,
		editor:      handle,
		provider:    rec.provider,
		providerReg: rec.reg,
		providerKey: key,
	})
	m.providers.insert(key, rec)
	m.mu.Unlock()

	logging.Debugf("opened %s tab for %s", mode, file.DisplayPath())
	return nil
}

// disposeTab removes the tab and, when it owned a closable editor
// surface, its provider registration. Providers behind surfaces with no
// handle are intentionally left registered: their closure can never be
// observed, so tearing them down would break a surface still in use.
func (m *Manager) disposeTab(tab *Tab, closeEditor bool) {
	if closeEditor && tab.editor != nil {
		// Focus first so the close cannot land on an unrelated surface.
		if err := tab.editor.Focus(); err != nil {
			logging.Debugf("focus before close failed for %s: %v", tab.File.DisplayPath(), err)
		}
		if err := tab.editor.Close(); err != nil {
			logging.Warnf("could not close surface for %s: %v", tab.File.DisplayPath(), err)
		}
	}

	m.mu.Lock()
	m.tabs.remove(tab.File.Identity)
	var rec providerRecord
	var hadRecord bool
	if tab.editor != nil {
		rec, hadRecord = m.providers.remove(tab.providerKey)
	}
	m.mu.Unlock()

	if hadRecord {
		if err := rec.reg.Dispose(); err != nil {
			logging.Warnf("could not dispose provider registration for %s: %v", tab.File.DisplayPath(), err)
		}
		if err := rec.provider.Dispose(); err != nil {
			logging.Warnf("could not dispose provider for %s: %v", tab.File.DisplayPath(), err)
		}
	}
}

// onDocumentClosed keeps the registries consistent when a document is
// closed by any means: the surface is already gone, only bookkeeping is
// left to do.
func (m *Manager) onDocumentClosed(uri *url.URL) {
	id, _, err := model.ParseURI(uri)
	if err != nil {
		return
	}

	unlock := m.locks.lock(id)
	defer unlock()

	m.mu.Lock()
	tab, ok := m.tabs.lookup(id)
	m.mu.Unlock()
	if !ok || m.host.KeyFor(tab.URI) != m.host.KeyFor(uri) {
		// Either no tab, or the close belongs to a surface the manager
		// already superseded.
		return
	}

	m.disposeTab(tab, false)
}

// maybeWarnEdit shows the editing-consequence warning at most once per
// session, unless the user suppressed it for good. warnMu covers the
// whole check-show-record sequence so concurrent first edit-opens
// cannot each show the dialog.
func (m *Manager) maybeWarnEdit(ctx context.Context, file model.RemoteFile) error {
	m.warnMu.Lock()
	defer m.warnMu.Unlock()

	if m.warned || m.settings.SuppressEditWarning() {
		return nil
	}

	suppress, err := m.confirm.ShowEditWarning(ctx, file)
	if err != nil {
		return err
	}
	m.warned = true

	if suppress {
		if err := m.settings.SetSuppressEditWarning(true); err != nil {
			logging.Warnf("could not persist edit warning preference: %v", err)
		}
	}
	return nil
}

// confirmSize enforces the download-size policy: unknown sizes and sizes
// above the threshold need explicit confirmation; declining aborts the
// open as a cancellation.
func (m *Manager) confirmSize(ctx context.Context, file model.RemoteFile) error {
	if file.SizeKnown() && file.SizeBytes <= model.LargeFileBytes {
		return nil
	}

	proceed, err := m.confirm.ConfirmDownload(ctx, file)
	if err != nil {
		return err
	}
	if !proceed {
		return fmt.Errorf("%w: download of %s declined", ErrCancelled, file.DisplayPath())
	}
	return nil
}

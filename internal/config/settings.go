// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import "sync"

// Settings exposes the persisted user preferences that the tab manager
// consults. Writes go straight back to the user config file.
type Settings struct {
	mu  sync.Mutex
	cfg *Config
}

// NewSettings wraps a loaded configuration.
func NewSettings(cfg *Config) *Settings {
	return &Settings{cfg: cfg}
}

// SuppressEditWarning reports whether the user opted out of the
// editing-consequence warning.
func (s *Settings) SuppressEditWarning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.SuppressEditWarning
}

// SetSuppressEditWarning records and persists the opt-out.
func (s *Settings) SetSuppressEditWarning(suppress bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.SuppressEditWarning = suppress
	return WriteConfigFile(s.cfg, false)
}

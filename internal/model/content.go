// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"path"
	"strings"
)

// textExtensions lists file extensions the read-only preview surface can
// render. Anything else is routed straight to edit mode, which opens a
// plain editable document regardless of content.
var textExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".markdown": {}, ".rst": {},
	".json": {}, ".yaml": {}, ".yml": {}, ".toml": {}, ".ini": {}, ".env": {},
	".xml": {}, ".html": {}, ".htm": {}, ".css": {}, ".csv": {}, ".tsv": {},
	".go": {}, ".py": {}, ".js": {}, ".ts": {}, ".rb": {}, ".sh": {}, ".bash": {},
	".c": {}, ".h": {}, ".cpp": {}, ".hpp": {}, ".java": {}, ".rs": {}, ".sql": {},
	".log": {}, ".conf": {}, ".cfg": {}, ".properties": {}, ".tf": {}, ".proto": {},
}

// IsTextRenderable reports whether the read-only preview can display the
// named file. Files without an extension are treated as text, matching the
// common case of README, Makefile and dotfile-style keys.
func IsTextRenderable(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return true
	}
	_, ok := textExtensions[ext]
	return ok
}

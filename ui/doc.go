// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ui contains the top-level UI wiring for Bucketpad.
//
// The cli subpackage holds the cobra command tree and the interactive
// confirmation prompts used from the terminal.
package ui

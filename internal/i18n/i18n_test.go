// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"strings"
	"testing"
)

func TestTranslateKnownMessage(t *testing.T) {
	SetLang("en")
	got := T("browse.copy_uri")
	if got != "Copy URI" {
		t.Fatalf("T(browse.copy_uri) = %q", got)
	}
}

func TestTranslateAppliesFormatArgs(t *testing.T) {
	SetLang("en")
	got := T("browse.title", "assets")
	if got != "Bucket assets" {
		t.Fatalf("T(browse.title, assets) = %q", got)
	}
}

func TestUnknownIDFallsBackToID(t *testing.T) {
	SetLang("en")
	if got := T("no.such.key"); got != "no.such.key" {
		t.Fatalf("unknown ID must pass through, got %q", got)
	}
}

func TestGermanLocale(t *testing.T) {
	SetLang("de")
	defer SetLang("en")

	got := T("browse.copy_uri")
	if !strings.Contains(got, "kopieren") {
		t.Fatalf("expected German translation, got %q", got)
	}
}

// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "testing"

func TestNewRemoteFileDefaults(t *testing.T) {
	f := NewRemoteFile(Identity{Bucket: "assets", Key: "docs/readme.md", Region: "eu-central-1"})

	if f.Name != "readme.md" {
		t.Fatalf("name = %q, want readme.md", f.Name)
	}
	if f.SizeKnown() {
		t.Fatalf("fresh file must report unknown size, got %d", f.SizeBytes)
	}
}

func TestDisplayPath(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"nested key", "docs/guides/intro.md", "eu-central-1/assets/docs/guides/intro.md"},
		{"top-level key", "intro.md", "eu-central-1/assets/intro.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewRemoteFile(Identity{Bucket: "assets", Key: tt.key, Region: "eu-central-1"})
			if got := f.DisplayPath(); got != tt.want {
				t.Fatalf("DisplayPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsTextRenderable(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"readme.md", true},
		{"config.yaml", true},
		{"server.log", true},
		{"Makefile", true}, // extensionless keys are assumed text
		{"logo.png", false},
		{"archive.tar.gz", false},
		{"binary.exe", false},
	}

	for _, tt := range tests {
		if got := IsTextRenderable(tt.name); got != tt.want {
			t.Errorf("IsTextRenderable(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIdentityString(t *testing.T) {
	id := Identity{Bucket: "assets", Key: "a/b.txt", Region: "eu-central-1"}
	if got := id.String(); got != "eu-central-1/assets/a/b.txt" {
		t.Fatalf("String() = %q", got)
	}
	if !(Identity{}).IsZero() {
		t.Fatal("zero identity must report IsZero")
	}
	if id.IsZero() {
		t.Fatal("populated identity must not report IsZero")
	}
}

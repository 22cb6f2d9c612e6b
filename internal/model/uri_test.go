// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"net/url"
	"testing"
)

func TestURIRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		mode TabMode
		want string
	}{
		{
			name: "read mode",
			id:   Identity{Bucket: "assets", Key: "docs/readme.md", Region: "eu-central-1"},
			mode: ModeRead,
			want: "bucketpad-ro://eu-central-1/assets/docs/readme.md",
		},
		{
			name: "edit mode",
			id:   Identity{Bucket: "assets", Key: "docs/readme.md", Region: "eu-central-1"},
			mode: ModeEdit,
			want: "bucketpad-edit://eu-central-1/assets/docs/readme.md",
		},
		{
			name: "top-level key",
			id:   Identity{Bucket: "b", Key: "file.txt", Region: "us-east-1"},
			mode: ModeRead,
			want: "bucketpad-ro://us-east-1/b/file.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := URIFor(tt.id, tt.mode)
			if u.String() != tt.want {
				t.Fatalf("URIFor() = %q, want %q", u.String(), tt.want)
			}

			id, mode, err := ParseURI(u)
			if err != nil {
				t.Fatalf("ParseURI() error: %v", err)
			}
			if id != tt.id {
				t.Fatalf("round trip identity = %+v, want %+v", id, tt.id)
			}
			if mode != tt.mode {
				t.Fatalf("round trip mode = %v, want %v", mode, tt.mode)
			}
		})
	}
}

func TestParseURIRejectsForeignInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"foreign scheme", "https://example.com/bucket/key"},
		{"missing key", "bucketpad-ro://eu-central-1/onlybucket"},
		{"empty path", "bucketpad-edit://eu-central-1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			if err != nil {
				t.Fatalf("test URI does not parse: %v", err)
			}
			if _, _, err := ParseURI(u); err == nil {
				t.Fatalf("ParseURI(%q) accepted invalid input", tt.raw)
			}
		})
	}
}

func TestURIKeyDropsQueryAndFragment(t *testing.T) {
	id := Identity{Bucket: "assets", Key: "a.txt", Region: "eu-central-1"}
	plain := URIFor(id, ModeRead)

	decorated := *plain
	decorated.RawQuery = "ts=12345"
	decorated.Fragment = "L10"

	if URIKey(&decorated) != URIKey(plain) {
		t.Fatalf("query/fragment leaked into the registry key: %q vs %q",
			URIKey(&decorated), URIKey(plain))
	}
}

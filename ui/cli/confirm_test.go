// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/toeirei/bucketpad/internal/model"
)

func confirmerWithInput(input string) (*stdinConfirmer, *bytes.Buffer) {
	var out bytes.Buffer
	return &stdinConfirmer{
		in:  bufio.NewReader(strings.NewReader(input)),
		out: &out,
	}, &out
}

func testFile(size int64) model.RemoteFile {
	f := model.NewRemoteFile(model.Identity{Bucket: "assets", Key: "report.csv", Region: "eu-central-1"})
	f.SizeBytes = size
	return f
}

func TestConfirmDownloadAnswers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes short", "y\n", true},
		{"yes long", "YES\n", true},
		{"no", "n\n", false},
		{"empty defaults to no", "\n", false},
		{"garbage is no", "maybe\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := confirmerWithInput(tt.input)
			got, err := c.ConfirmDownload(context.Background(), testFile(10_000_000))
			if err != nil {
				t.Fatalf("ConfirmDownload: %v", err)
			}
			if got != tt.want {
				t.Fatalf("answer %q: got %v want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfirmDownloadMentionsSize(t *testing.T) {
	c, out := confirmerWithInput("n\n")
	if _, err := c.ConfirmDownload(context.Background(), testFile(10_000_000)); err != nil {
		t.Fatalf("ConfirmDownload: %v", err)
	}
	if !strings.Contains(out.String(), "9.5 MiB") {
		t.Fatalf("prompt should show the human-readable size, got %q", out.String())
	}

	c, out = confirmerWithInput("n\n")
	if _, err := c.ConfirmDownload(context.Background(), testFile(model.SizeUnknown)); err != nil {
		t.Fatalf("ConfirmDownload: %v", err)
	}
	if !strings.Contains(out.String(), "unknown size") {
		t.Fatalf("prompt should flag unknown sizes, got %q", out.String())
	}
}

func TestShowEditWarningSuppression(t *testing.T) {
	c, _ := confirmerWithInput("\n")
	suppress, err := c.ShowEditWarning(context.Background(), testFile(128))
	if err != nil {
		t.Fatalf("ShowEditWarning: %v", err)
	}
	if suppress {
		t.Fatal("plain enter must not suppress the warning")
	}

	c, _ = confirmerWithInput("Always\n")
	suppress, err = c.ShowEditWarning(context.Background(), testFile(128))
	if err != nil {
		t.Fatalf("ShowEditWarning: %v", err)
	}
	if !suppress {
		t.Fatal("answering always must suppress the warning")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{4_000_000, "3.8 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Fatalf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

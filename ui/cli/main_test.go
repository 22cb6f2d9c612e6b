// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"
)

func TestResolveBuildVersionMainVersion(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/toeirei/bucketpad", Version: "v1.2.3"},
	}
	v, c, d := resolveBuildVersion(info)
	if v != "v1.2.3" {
		t.Fatalf("expected v1.2.3 got %s", v)
	}
	if c != gitCommit {
		t.Fatalf("expected commit to equal package gitCommit (default) got %s", c)
	}
	if d != buildDate {
		t.Fatalf("expected date to equal package buildDate (default) got %s", d)
	}
}

func TestResolveBuildVersionVCSSettings(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/toeirei/bucketpad", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2026-08-01T12:00:00Z"},
		},
	}
	v, c, d := resolveBuildVersion(info)
	if v != version {
		t.Fatalf("(devel) must not override the linker version, got %s", v)
	}
	if c != "deadbeef" {
		t.Fatalf("expected vcs.revision, got %s", c)
	}
	if d != "2026-08-01T12:00:00Z" {
		t.Fatalf("expected vcs.time, got %s", d)
	}
}

func TestNewRootCmdHasSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	want := map[string]bool{"browse": false, "open": false, "config": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("root command is missing the %s subcommand", name)
		}
	}
}

func TestGetConfigPathFromCli(t *testing.T) {
	cmd := NewRootCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	path, err := getConfigPathFromCli(cmd)
	if err != nil {
		t.Fatalf("unset flag must not error: %v", err)
	}
	if path != nil {
		t.Fatalf("unset flag must yield nil, got %q", *path)
	}

	cmd = NewRootCmd()
	if err := cmd.ParseFlags([]string{"--config", "/does/not/exist.yaml"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := getConfigPathFromCli(cmd); err == nil {
		t.Fatal("expected an error for a missing config file")
	}

	file := filepath.Join(t.TempDir(), "bucketpad.yaml")
	if err := os.WriteFile(file, []byte("language: en\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	cmd = NewRootCmd()
	if err := cmd.ParseFlags([]string{"--config", file}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	path, err = getConfigPathFromCli(cmd)
	if err != nil {
		t.Fatalf("existing file must not error: %v", err)
	}
	if path == nil || *path != file {
		t.Fatalf("expected %q, got %v", file, path)
	}
}

// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	cfg "github.com/toeirei/bucketpad/internal/config"
)

func isolateConfigDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	return tmp
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfigDir(t)

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Language != "en" {
		t.Fatalf("expected default language en, got %q", got.Language)
	}
	if got.Backend != "s3" {
		t.Fatalf("expected default backend s3, got %q", got.Backend)
	}
	if got.S3.Region != "us-east-1" {
		t.Fatalf("expected default region, got %q", got.S3.Region)
	}
}

func TestLoadConfigReadsExplicitFile(t *testing.T) {
	isolateConfigDir(t)

	yaml := "backend: sftp\nlanguage: de\nsftp:\n  host: files.example.com\n  user: deploy\nsuppress_edit_warning: true\n"
	file := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Backend != "sftp" {
		t.Fatalf("expected sftp backend, got %q", got.Backend)
	}
	if got.SFTP.Host != "files.example.com" || got.SFTP.User != "deploy" {
		t.Fatalf("sftp section not unmarshalled: %+v", got.SFTP)
	}
	if got.Language != "de" {
		t.Fatalf("expected de, got %q", got.Language)
	}
	if !got.SuppressEditWarning {
		t.Fatal("suppress_edit_warning not unmarshalled")
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	isolateConfigDir(t)

	yaml := "s3:\n  region: eu-central-1\n"
	file := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	t.Setenv("BUCKETPAD_S3_REGION", "ap-southeast-2")

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.S3.Region != "ap-southeast-2" {
		t.Fatalf("environment must override file, got %q", got.S3.Region)
	}
}

func TestWriteConfigFileCreatesFile(t *testing.T) {
	isolateConfigDir(t)

	c := cfg.Config{Language: "en", Backend: "s3"}
	c.S3.Region = "eu-central-1"

	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}
}

func TestSettingsPersistSuppression(t *testing.T) {
	isolateConfigDir(t)

	c := &cfg.Config{Language: "en", Backend: "s3"}
	settings := cfg.NewSettings(c)

	if settings.SuppressEditWarning() {
		t.Fatal("suppression must default to off")
	}
	if err := settings.SetSuppressEditWarning(true); err != nil {
		t.Fatalf("set suppression: %v", err)
	}
	if !settings.SuppressEditWarning() {
		t.Fatal("suppression not recorded")
	}

	reloaded, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.SuppressEditWarning {
		t.Fatal("suppression was not persisted to the config file")
	}
}

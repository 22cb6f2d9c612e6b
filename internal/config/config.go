// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and persists the bucketpad configuration file.
// Precedence, lowest to highest: built-in defaults, config file,
// BUCKETPAD_* environment variables, command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the persisted application configuration.
type Config struct {
	Language string `mapstructure:"language" yaml:"language"`
	Debug    bool   `mapstructure:"debug" yaml:"debug"`
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`

	// Backend selects the remote store implementation: "s3" or "sftp".
	Backend string `mapstructure:"backend" yaml:"backend"`

	S3 struct {
		Region    string `mapstructure:"region" yaml:"region"`
		Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
		PathStyle bool   `mapstructure:"path_style" yaml:"path_style"`
	} `mapstructure:"s3" yaml:"s3"`

	SFTP struct {
		Host           string `mapstructure:"host" yaml:"host"`
		User           string `mapstructure:"user" yaml:"user"`
		PrivateKeyPath string `mapstructure:"private_key_path" yaml:"private_key_path"`
	} `mapstructure:"sftp" yaml:"sftp"`

	SuppressEditWarning bool `mapstructure:"suppress_edit_warning" yaml:"suppress_edit_warning"`
}

// Defaults returns the built-in configuration defaults.
func Defaults() map[string]any {
	return map[string]any{
		"language":  "en",
		"debug":     false,
		"cache_dir": defaultCacheDir(),
		"backend":   "s3",
		"s3.region": "us-east-1",
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".bucketpad-cache"
	}
	return filepath.Join(dir, "bucketpad")
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Bucketpad")
		default: // Linux, macOS, etc.
			configDir = "/etc/bucketpad"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "bucketpad")
	}

	return filepath.Join(configDir, "bucketpad.yaml"), nil
}

// LoadConfig resolves the configuration for a command invocation. An
// explicit config file path (from a --config flag) has the highest
// file-based precedence; flags bound on cmd override everything.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("bucketpad")
	v.SetConfigType("yaml")

	if configFile != nil {
		v.SetConfigFile(*configFile)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // bucketpad.yaml in the current dir

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("bucketpad")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteConfigFile persists the configuration to the standard location.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600, the file may carry credentials for compat endpoints.
	return os.WriteFile(path, data, 0600)
}

// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/toeirei/bucketpad/internal/config"
)

// newConfigCmd inspects and initializes the configuration file.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath(false)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(&appConfig)
			if err != nil {
				return err
			}
			fmt.Printf("# %s\n%s", path, data)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to the user config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteConfigFile(&appConfig, false); err != nil {
				return err
			}
			path, err := config.GetConfigPath(false)
			if err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	return cmd
}

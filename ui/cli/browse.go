// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/toeirei/bucketpad/internal/tui"
)

// newBrowseCmd builds the interactive browser command.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <bucket>",
		Short: "Browse a bucket and open files interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newServices(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			browser := &tui.Browser{
				Store:   svc.store,
				Manager: svc.manager,
				Editors: svc.editors,
				Bucket:  args[0],
				Region:  appConfig.S3.Region,
			}
			return browser.Run(cmd.Context())
		},
	}
}

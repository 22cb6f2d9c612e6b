// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/toeirei/bucketpad/internal/i18n"
	"github.com/toeirei/bucketpad/internal/model"
	"github.com/toeirei/bucketpad/internal/tabs"
)

// newOpenCmd builds the one-shot open command.
func newOpenCmd() *cobra.Command {
	var editMode bool

	cmd := &cobra.Command{
		Use:   "open <bucket> <key>",
		Short: "Open one remote file in the pager or editor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newServices(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			file := model.NewRemoteFile(model.Identity{
				Bucket: args[0],
				Key:    args[1],
				Region: appConfig.S3.Region,
			})

			closed := make(chan struct{}, 1)
			release := svc.editors.OnDocumentClosed(func(uri *url.URL) {
				id, _, err := model.ParseURI(uri)
				if err == nil && id == file.Identity {
					select {
					case closed <- struct{}{}:
					default:
					}
				}
			})
			defer release()

			if editMode {
				err = svc.manager.OpenInEditMode(cmd.Context(), file)
			} else {
				err = svc.manager.OpenInReadMode(cmd.Context(), file)
			}
			if errors.Is(err, tabs.ErrCancelled) {
				fmt.Println(i18n.T("open.cancelled"))
				return nil
			}
			if err != nil {
				return fmt.Errorf("could not open %s: %w", file.DisplayPath(), err)
			}

			// Wait for the pager or editor to finish.
			select {
			case <-closed:
			case <-cmd.Context().Done():
				return context.Cause(cmd.Context())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&editMode, "edit", "e", false, "open editable instead of read-only")
	return cmd
}

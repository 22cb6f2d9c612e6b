// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toeirei/bucketpad/internal/i18n"
	"github.com/toeirei/bucketpad/internal/model"
	"github.com/toeirei/bucketpad/internal/tabs"
)

// stdinConfirmer asks yes/no questions on the controlling terminal.
type stdinConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newStdinConfirmer() *stdinConfirmer {
	return &stdinConfirmer{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

var _ tabs.Confirmer = (*stdinConfirmer)(nil)

// ConfirmDownload asks before transferring large or unknown-size files.
func (c *stdinConfirmer) ConfirmDownload(ctx context.Context, file model.RemoteFile) (bool, error) {
	size := i18n.T("confirm.size_unknown")
	if file.SizeKnown() {
		size = formatBytes(file.SizeBytes)
	}
	fmt.Fprint(c.out, i18n.T("confirm.download", file.DisplayPath(), size))
	return c.readYesNo()
}

// ShowEditWarning explains that saving uploads immediately. Answering
// "always" suppresses the warning for good.
func (c *stdinConfirmer) ShowEditWarning(ctx context.Context, file model.RemoteFile) (bool, error) {
	fmt.Fprintln(c.out, i18n.T("confirm.edit_warning", file.DisplayPath()))
	fmt.Fprint(c.out, i18n.T("confirm.edit_warning_prompt"))

	line, err := c.in.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("could not read answer: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "always"), nil
}

func (c *stdinConfirmer) readYesNo() (bool, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("could not read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

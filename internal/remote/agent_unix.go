//go:build !windows
// +build !windows

// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the Unix-specific implementation for locating a
// running SSH agent used to authenticate the SFTP store.
package remote

import (
	"net"
	"os"

	"golang.org/x/crypto/ssh/agent"
)

// sshAgent attempts to connect to a running SSH agent. It checks the
// SSH_AUTH_SOCK environment variable for the socket path and returns an
// agent client if a connection is successful.
func sshAgent() agent.Agent {
	if sshAgentSocket := os.Getenv("SSH_AUTH_SOCK"); sshAgentSocket != "" {
		if conn, err := net.Dial("unix", sshAgentSocket); err == nil {
			return agent.NewClient(conn)
		}
	}
	return nil
}

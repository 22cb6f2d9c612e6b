// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

package remote

import (
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// AuthMethods assembles the SSH authentication methods for the SFTP
// store: a running agent when one is available, then an optional private
// key file, then an interactive password callback as the last resort.
// passwordFn may be nil when interactive prompting is not possible.
func AuthMethods(privateKeyPath, passphrase string, passwordFn func() (string, error)) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if ag := sshAgent(); ag != nil {
		methods = append(methods, ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
			return agentSigners(ag)
		}))
	}

	if privateKeyPath != "" {
		data, err := os.ReadFile(privateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("could not read private key %s: %w", privateKeyPath, err)
		}
		var signer ssh.Signer
		if passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(data, []byte(passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(data)
		}
		if err != nil {
			return nil, fmt.Errorf("could not parse private key %s: %w", privateKeyPath, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if passwordFn != nil {
		methods = append(methods, ssh.PasswordCallback(passwordFn))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no usable SSH authentication method (no agent, key or password)")
	}
	return methods, nil
}

func agentSigners(ag agent.Agent) ([]ssh.Signer, error) {
	signers, err := ag.Signers()
	if err != nil {
		return nil, fmt.Errorf("ssh agent refused to provide signers: %w", err)
	}
	return signers, nil
}

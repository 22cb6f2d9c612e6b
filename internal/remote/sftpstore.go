// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the SFTP implementation of the object store client,
// for teams that keep shared files on a plain SSH host instead of a
// bucket. The "bucket" maps to a top-level directory and the "region"
// field carries the host name for display purposes.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/toeirei/bucketpad/internal/model"
)

// SFTPStore implements Store over an SSH connection.
type SFTPStore struct {
	client *ssh.Client
	sftp   *sftp.Client
	host   string
}

// NewSFTPStore connects to host (port 22 is assumed when none is given)
// and opens an SFTP session on top of the SSH connection.
func NewSFTPStore(host, user string, auth []ssh.AuthMethod, hostKeyCallback ssh.HostKeyCallback) (*SFTPStore, error) {
	if hostKeyCallback == nil {
		return nil, errors.New("an SSH host key callback is required")
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         15 * time.Second,
	}

	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, "22")
	}

	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start sftp session on %s: %w", addr, err)
	}

	return &SFTPStore{client: client, sftp: sftpClient, host: host}, nil
}

// Close tears down the SFTP session and the SSH connection.
func (s *SFTPStore) Close() error {
	sftpErr := s.sftp.Close()
	sshErr := s.client.Close()
	if sftpErr != nil {
		return sftpErr
	}
	return sshErr
}

func (s *SFTPStore) remotePath(id model.Identity) string {
	return path.Join("/", id.Bucket, id.Key)
}

// Head stats the remote file. SFTP has no entity tags, so one is derived
// from the modification time and size; it changes whenever the content
// plausibly did, which is all the caching layer needs.
func (s *SFTPStore) Head(ctx context.Context, id model.Identity) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	fi, err := s.sftp.Stat(s.remotePath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ObjectInfo{}, ErrNotFound
		}
		return ObjectInfo{}, fmt.Errorf("stat %s: %w", id, err)
	}
	return ObjectInfo{
		ETag:         deriveETag(fi.ModTime(), fi.Size()),
		Size:         fi.Size(),
		LastModified: fi.ModTime(),
	}, nil
}

// Download reads the remote file, checking for cancellation between
// chunks since the SFTP protocol itself has no context support.
func (s *SFTPStore) Download(ctx context.Context, id model.Identity, progress ProgressFunc) ([]byte, error) {
	f, err := s.sftp.Open(s.remotePath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	defer f.Close()

	var data []byte
	chunk := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, readErr := f.Read(chunk)
		if n > 0 {
			data = append(data, chunk[:n]...)
			if progress != nil {
				progress(int64(len(data)))
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", id, readErr)
		}
	}
	return data, nil
}

// Upload writes the file through a temporary name and renames it into
// place, so a dropped connection never leaves a half-written file.
func (s *SFTPStore) Upload(ctx context.Context, id model.Identity, data []byte) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}

	target := s.remotePath(id)
	tmp := target + ".bucketpad-tmp"

	f, err := s.sftp.Create(tmp)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create %s: %w", id, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		s.sftp.Remove(tmp)
		return ObjectInfo{}, fmt.Errorf("write %s: %w", id, err)
	}
	if err := f.Close(); err != nil {
		s.sftp.Remove(tmp)
		return ObjectInfo{}, fmt.Errorf("close %s: %w", id, err)
	}
	if err := s.sftp.PosixRename(tmp, target); err != nil {
		s.sftp.Remove(tmp)
		return ObjectInfo{}, fmt.Errorf("rename %s: %w", id, err)
	}

	fi, err := s.sftp.Stat(target)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat after upload %s: %w", id, err)
	}
	return ObjectInfo{
		ETag:         deriveETag(fi.ModTime(), fi.Size()),
		Size:         fi.Size(),
		LastModified: fi.ModTime(),
	}, nil
}

// List walks bucket/prefix recursively and returns the regular files.
func (s *SFTPStore) List(ctx context.Context, bucket, prefix string) ([]model.RemoteFile, error) {
	root := path.Join("/", bucket, prefix)
	var files []model.RemoteFile

	pending := []string{root}
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := pending[0]
		pending = pending[1:]

		entries, err := s.sftp.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, fi := range entries {
			full := path.Join(dir, fi.Name())
			if fi.IsDir() {
				pending = append(pending, full)
				continue
			}
			key := full[len(path.Join("/", bucket))+1:]
			files = append(files, model.RemoteFile{
				Identity:     model.Identity{Bucket: bucket, Key: key, Region: s.host},
				Name:         fi.Name(),
				SizeBytes:    fi.Size(),
				LastModified: fi.ModTime(),
				ETag:         deriveETag(fi.ModTime(), fi.Size()),
			})
		}
	}

	return files, nil
}

func deriveETag(mtime time.Time, size int64) string {
	return fmt.Sprintf("%x-%x", mtime.Unix(), size)
}

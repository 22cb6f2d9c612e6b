// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// package state persists what Bucketpad has learned about remote objects
// between runs: a sqlite-backed metadata table (etag, size, modification
// time per object) and zstd-compressed content snapshots keyed by etag,
// so re-opening an unchanged object skips the download.
package state

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/toeirei/bucketpad/internal/model"
)

// remoteFileRow is the bun model for the metadata table.
type remoteFileRow struct {
	bun.BaseModel `bun:"table:remote_files"`
	ID            string    `bun:"id,pk"`
	Bucket        string    `bun:"bucket"`
	Key           string    `bun:"key"`
	Region        string    `bun:"region"`
	Name          string    `bun:"name"`
	ETag          string    `bun:"etag"`
	SizeBytes     int64     `bun:"size_bytes"`
	LastModified  time.Time `bun:"last_modified"`
	SeenAt        time.Time `bun:"seen_at"`
}

// Cache is the persistent metadata and content cache.
type Cache struct {
	db         *bun.DB
	sqlDB      *sql.DB
	contentDir string
	encoder    *zstd.Encoder
	decoder    *zstd.Decoder
}

// Open creates (or reopens) the cache rooted at dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create cache directory %s: %w", dir, err)
	}
	contentDir := filepath.Join(dir, "content")
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create content directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", filepath.Join(dir, "metadata.db"))
	if err != nil {
		return nil, fmt.Errorf("could not open metadata database: %w", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*remoteFileRow)(nil)).
		IfNotExists().
		Exec(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("could not create metadata table: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &Cache{
		db:         db,
		sqlDB:      sqlDB,
		contentDir: contentDir,
		encoder:    encoder,
		decoder:    decoder,
	}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	c.encoder.Close()
	return c.db.Close()
}

// PutMeta upserts the metadata snapshot for a remote file.
func (c *Cache) PutMeta(ctx context.Context, f model.RemoteFile) error {
	row := remoteFileRow{
		ID:           f.Identity.String(),
		Bucket:       f.Identity.Bucket,
		Key:          f.Identity.Key,
		Region:       f.Identity.Region,
		Name:         f.Name,
		ETag:         f.ETag,
		SizeBytes:    f.SizeBytes,
		LastModified: f.LastModified,
		SeenAt:       time.Now().UTC(),
	}
	_, err := c.db.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("etag = EXCLUDED.etag").
		Set("size_bytes = EXCLUDED.size_bytes").
		Set("last_modified = EXCLUDED.last_modified").
		Set("seen_at = EXCLUDED.seen_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("could not upsert metadata for %s: %w", f.Identity, err)
	}
	return nil
}

// GetMeta returns the cached metadata snapshot, if one exists.
func (c *Cache) GetMeta(ctx context.Context, id model.Identity) (model.RemoteFile, bool, error) {
	var row remoteFileRow
	err := c.db.NewSelect().
		Model(&row).
		Where("id = ?", id.String()).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RemoteFile{}, false, nil
	}
	if err != nil {
		return model.RemoteFile{}, false, fmt.Errorf("could not read metadata for %s: %w", id, err)
	}

	return model.RemoteFile{
		Identity:     model.Identity{Bucket: row.Bucket, Key: row.Key, Region: row.Region},
		Name:         row.Name,
		SizeBytes:    row.SizeBytes,
		LastModified: row.LastModified,
		ETag:         row.ETag,
	}, true, nil
}

// PutContent stores a zstd-compressed content snapshot keyed by the
// object's identity and etag.
func (c *Cache) PutContent(id model.Identity, etag string, data []byte) error {
	if etag == "" {
		return nil // nothing to key the snapshot on
	}
	compressed := c.encoder.EncodeAll(data, nil)
	path := c.contentPath(id, etag)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o600); err != nil {
		return fmt.Errorf("could not write content snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// GetContent returns the snapshot for the given identity and etag, if
// one was stored.
func (c *Cache) GetContent(id model.Identity, etag string) ([]byte, bool, error) {
	if etag == "" {
		return nil, false, nil
	}
	compressed, err := os.ReadFile(c.contentPath(id, etag))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("could not read content snapshot: %w", err)
	}
	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		// A corrupt snapshot is treated as a miss; the caller falls back
		// to downloading.
		return nil, false, nil
	}
	return data, true, nil
}

func (c *Cache) contentPath(id model.Identity, etag string) string {
	sum := sha256.Sum256([]byte(id.String() + "\x00" + etag))
	return filepath.Join(c.contentDir, hex.EncodeToString(sum[:])+".zst")
}

// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the S3 implementation of the object store client.
// It also serves S3-compatible endpoints (R2, MinIO) via the endpoint
// override.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/toeirei/bucketpad/internal/model"
)

// S3Store implements Store against the AWS S3 API.
type S3Store struct {
	client *s3.Client
	region string
}

// NewS3Store builds a store for the given region. A non-empty endpoint
// switches to path-style addressing for S3-compatible services.
func NewS3Store(ctx context.Context, region, endpoint string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("could not load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, region: region}, nil
}

// Head fetches current metadata for the object.
func (s *S3Store) Head(ctx context.Context, id model.Identity) (ObjectInfo, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(id.Bucket),
		Key:    aws.String(id.Key),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return ObjectInfo{}, ErrNotFound
		}
		return ObjectInfo{}, fmt.Errorf("head %s: %w", id, err)
	}

	return ObjectInfo{
		ETag:         cleanETag(aws.ToString(out.ETag)),
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// Download fetches the object's content, reporting cumulative progress.
func (s *S3Store) Download(ctx context.Context, id model.Identity, progress ProgressFunc) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(id.Bucket),
		Key:    aws.String(id.Key),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download %s: %w", id, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if size := aws.ToInt64(out.ContentLength); size > 0 {
		buf.Grow(int(size))
	}

	chunk := make([]byte, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, readErr := out.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if progress != nil {
				progress(int64(buf.Len()))
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("download %s: %w", id, readErr)
		}
	}

	return buf.Bytes(), nil
}

// Upload replaces the object's content and returns the new metadata.
func (s *S3Store) Upload(ctx context.Context, id model.Identity, data []byte) (ObjectInfo, error) {
	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(id.Bucket),
		Key:    aws.String(id.Key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("upload %s: %w", id, err)
	}

	// PutObject does not echo a modification time; the upload just
	// happened, so now is authoritative enough for the metadata cache.
	return ObjectInfo{
		ETag:         cleanETag(aws.ToString(out.ETag)),
		Size:         int64(len(data)),
		LastModified: time.Now().UTC(),
	}, nil
}

// List enumerates the objects under bucket/prefix, skipping directory
// placeholder keys.
func (s *S3Store) List(ctx context.Context, bucket, prefix string) ([]model.RemoteFile, error) {
	var files []model.RemoteFile

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			files = append(files, model.RemoteFile{
				Identity:     model.Identity{Bucket: bucket, Key: key, Region: s.region},
				Name:         path.Base(key),
				SizeBytes:    aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				ETag:         cleanETag(aws.ToString(obj.ETag)),
			})
		}
	}

	return files, nil
}

// cleanETag strips the quoting S3 wraps around entity tags.
func cleanETag(etag string) string {
	return strings.Trim(etag, `"`)
}

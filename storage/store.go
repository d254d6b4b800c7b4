// Package storage abstracts where finished chunk files land: the local
// filesystem by default, or an S3-compatible object store when configured
// (§6.5's ObjectStoreConfig). LocalStore writes via a temporary name and
// renames into place at the end; S3Store uploads each object with a single
// PutObject. In both cases a reader never observes a partially written
// object.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store is the write surface the chunk writer and sidecar writer both
// target. Put is atomic from the reader's point of view: a concurrent
// Get for key never observes a partial write.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
}

// LocalStore writes files under a base directory using a .part suffix and
// rename, mirroring the sidecar-write discipline §4.8 documents for the
// Parquet+JSON pair.
type LocalStore struct {
	BaseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{BaseDir: baseDir}
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := filepath.Join(s.BaseDir, key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: creating directory for %s: %w", key, err)
	}
	partPath := full + ".part"
	if err := os.WriteFile(partPath, data, 0o644); err != nil {
		return fmt.Errorf("storage: writing %s: %w", partPath, err)
	}
	if err := os.Rename(partPath, full); err != nil {
		return fmt.Errorf("storage: renaming %s to %s: %w", partPath, full, err)
	}
	return nil
}

// S3Store writes objects to an S3-compatible bucket via minio-go. There is
// no local .part-and-rename trick over HTTP; PutObject itself is the
// atomic unit as far as any reader is concerned — a GET never returns a
// half-uploaded object.
type S3Store struct {
	client *minio.Client
	bucket string
}

func NewS3Store(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*S3Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: creating S3 client for %s: %w", endpoint, err)
	}
	return &S3Store{client: client, bucket: bucket}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("storage: putting object %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Get reads back an object in full. No package in this module calls it;
// the ingest paths only write.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: getting object %s/%s: %w", s.bucket, key, err)
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

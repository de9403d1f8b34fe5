package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/outagetracker/internal/model"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

var _ model.KeyValueBackend = (*Store)(nil)

// Options configure the object storage backend.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Prefix    string
}

// Store keeps each key as a small object in a bucket.
type Store struct {
	api    minioAPI
	bucket string
	prefix string
}

// NewStore connects to the object storage endpoint described by opts.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return NewStoreWithAPI(ctx, minioClientWrapper{c: client}, opts.Bucket, opts.Prefix)
}

// NewStoreWithAPI allows injecting a mockable API (used in tests).
func NewStoreWithAPI(ctx context.Context, api minioAPI, bucket, prefix string) (*Store, error) {
	s := &Store{
		api:    api,
		bucket: bucket,
		prefix: prefix,
	}

	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return s, nil
}

func (s *Store) ensureBucketExists(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (s *Store) object(key string) string {
	return s.prefix + key
}

// Get reads the object stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	obj, err := s.api.GetObject(ctx, s.bucket, s.object(key), minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	// minio reports missing objects on first read
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to read object: %w", err)
	}

	return string(data), nil
}

// Set overwrites the object stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.api.PutObject(ctx, s.bucket, s.object(key), strings.NewReader(value), int64(len(value)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Delete removes the object stored under key. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.api.RemoveObject(ctx, s.bucket, s.object(key), minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Close is a no-op; the minio client holds no persistent connection.
func (s *Store) Close() error {
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

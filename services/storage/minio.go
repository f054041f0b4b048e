package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"photos/config"

	"github.com/dustin/go-humanize"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage implements ObjectStore using MinIO or any S3-compatible service
type MinioStorage struct {
	client     *minio.Client
	bucketName string
	logger     *log.Logger
}

// NewMinioStorage creates a new MinIO storage handler and makes sure the
// bucket exists.
func NewMinioStorage(ctx context.Context, cfg config.MinioConfig, bucketName string, logger *log.Logger) (*MinioStorage, error) {
	client, err := newMinioClient(cfg)
	if err != nil {
		return nil, err
	}
	s := newMinioStorage(client, bucketName, logger)

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("minio: failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("minio: failed to create bucket: %w", err)
		}
		s.logger.Printf("Created bucket %s", bucketName)
	}

	return s, nil
}

func newMinioClient(cfg config.MinioConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: failed to create client: %w", err)
	}
	return client, nil
}

func newMinioStorage(client *minio.Client, bucketName string, logger *log.Logger) *MinioStorage {
	if logger == nil {
		logger = log.New(log.Writer(), "[MINIO] ", log.LstdFlags)
	}
	return &MinioStorage{
		client:     client,
		bucketName: bucketName,
		logger:     logger,
	}
}

// PutObject uploads an object to the bucket
func (s *MinioStorage) PutObject(ctx context.Context, name string, reader io.Reader, size int64, contentType string) error {
	info, err := s.client.PutObject(ctx, s.bucketName, name, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio: failed to upload %q: %w", name, err)
	}
	s.logger.Printf("Uploaded object %s: ETag=%s, Size=%s", name, info.ETag, humanize.Bytes(uint64(info.Size)))
	return nil
}

// ListObjects lists every object in the bucket
func (s *MinioStorage) ListObjects(ctx context.Context) ([]ObjectInfo, error) {
	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Recursive: true,
	})

	var objects []ObjectInfo
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("minio: error listing objects: %w", object.Err)
		}

		objects = append(objects, ObjectInfo{
			Name:         object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
		})
	}

	return objects, nil
}

// SignedURL returns a presigned GET URL for the object
func (s *MinioStorage) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, name, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("minio: failed to sign URL for %q: %w", name, err)
	}
	return u.String(), nil
}

// Name returns a label for the backend
func (s *MinioStorage) Name() string {
	return "minio:" + s.bucketName
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"photos/config"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStorage implements ObjectStore on a Google Cloud Storage bucket.
type GCSStorage struct {
	client *gcs.Client
	bucket string
	logger *log.Logger
}

// NewGCSStorage creates a GCSStorage for the given bucket. Without a
// credentials file the client uses application default credentials, which
// must be able to sign URLs.
func NewGCSStorage(ctx context.Context, cfg config.GCSConfig, bucket string, logger *log.Logger, opts ...option.ClientOption) (*GCSStorage, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[GCS] ", log.LstdFlags)
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: failed to create client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket, logger: logger}, nil
}

// PutObject writes content to the bucket at name.
func (s *GCSStorage) PutObject(ctx context.Context, name string, reader io.Reader, size int64, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, reader); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs: upload write failed for %q: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs: upload close failed for %q: %w", name, err)
	}
	return nil
}

// ListObjects iterates every object in the bucket.
func (s *GCSStorage) ListObjects(ctx context.Context) ([]ObjectInfo, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, nil)

	var objects []ObjectInfo
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs: error listing objects: %w", err)
		}
		objects = append(objects, ObjectInfo{
			Name:         attrs.Name,
			Size:         attrs.Size,
			LastModified: attrs.Updated,
			ContentType:  attrs.ContentType,
		})
	}
	return objects, nil
}

// SignedURL returns a V4 signed GET URL.
func (s *GCSStorage) SignedURL(_ context.Context, name string, ttl time.Duration) (string, error) {
	signedURL, err := s.client.Bucket(s.bucket).SignedURL(name, &gcs.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
		Scheme:  gcs.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("gcs: failed to sign URL for %q: %w", name, err)
	}
	return signedURL, nil
}

// Name returns a label for the backend
func (s *GCSStorage) Name() string {
	return "gcs:" + s.bucket
}

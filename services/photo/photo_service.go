// Package photo implements the two operations behind the photo page: listing
// the stored photos with signed URLs, and copying uploaded files to the object
// store and the file share.
package photo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"photos/models"
	"photos/services/storage"
	"photos/utils"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultSignedURLTTL is how long a listed photo stays viewable.
const DefaultSignedURLTTL = time.Hour

const genericContentType = "application/octet-stream"

// Upload is one file from the upload form.
type Upload struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromFileHeaders adapts multipart form files to uploads.
func FromFileHeaders(headers []*multipart.FileHeader) []Upload {
	uploads := make([]Upload, 0, len(headers))
	for _, h := range headers {
		uploads = append(uploads, Upload{
			Filename:    h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return h.Open()
			},
		})
	}
	return uploads
}

// Service copies uploads to both backends and lists the object store.
type Service struct {
	objects storage.ObjectStore
	share   storage.FileShare
	ttl     time.Duration
	logger  *log.Logger
	now     func() time.Time
}

// NewService creates a photo service. A non-positive ttl uses
// DefaultSignedURLTTL.
func NewService(objects storage.ObjectStore, share storage.FileShare, ttl time.Duration, logger *log.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	if logger == nil {
		logger = utils.NewCustomLogger("PHOTO")
	}
	return &Service{
		objects: objects,
		share:   share,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// ListPhotos signs a URL for every stored object. Objects that fail to sign
// are logged and left out; only a failed listing returns an error.
func (s *Service) ListPhotos(ctx context.Context) ([]models.Photo, error) {
	objects, err := s.objects.ListObjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.objects.Name(), err)
	}

	photos := make([]models.Photo, 0, len(objects))
	for _, obj := range objects {
		expiresAt := s.now().Add(s.ttl)
		signedURL, err := s.objects.SignedURL(ctx, obj.Name, s.ttl)
		if err != nil {
			s.logger.Printf("Error generating signed URL for %s: %v", obj.Name, err)
			continue
		}
		photos = append(photos, models.Photo{
			Name:      obj.Name,
			URL:       signedURL,
			ExpiresAt: expiresAt,
			Size:      obj.Size,
		})
	}
	return photos, nil
}

// UploadPhotos writes each upload to the object store and then to the file
// share. Every file and every backend is attempted regardless of earlier
// failures; nothing is rolled back.
func (s *Service) UploadPhotos(ctx context.Context, uploads []Upload) models.UploadSummary {
	summary := models.UploadSummary{Results: make([]models.FileResult, 0, len(uploads))}
	for _, u := range uploads {
		summary.Results = append(summary.Results, s.uploadOne(ctx, u))
	}

	s.logger.Printf("Upload finished: %d stored, %d failed, %d skipped",
		summary.Stored(), summary.Failed(), summary.Skipped())
	return summary
}

func (s *Service) uploadOne(ctx context.Context, u Upload) models.FileResult {
	name := ObjectName(u.Filename)
	if name == "" {
		return models.FileResult{Name: u.Filename, Skipped: true}
	}
	result := models.FileResult{Name: name}

	data, err := readUpload(u)
	if err != nil {
		err = fmt.Errorf("reading upload %q: %w", name, err)
		s.logger.Printf("Upload failed: %v", err)
		result.ObjectErr = err
		result.ShareErr = err
		return result
	}
	result.Size = int64(len(data))
	result.ContentType = ContentType(u.ContentType, data)

	if err := s.objects.PutObject(ctx, name, bytes.NewReader(data), result.Size, result.ContentType); err != nil {
		result.ObjectErr = err
		s.logger.Printf("Upload failed: %v", err)
	} else {
		s.logger.Printf("Uploaded %s (%s, %s) to %s", name, humanize.Bytes(uint64(result.Size)), result.ContentType, s.objects.Name())
	}

	if err := s.share.UploadFile(ctx, name, bytes.NewReader(data), result.Size); err != nil {
		result.ShareErr = err
		s.logger.Printf("Upload failed: %v", err)
	} else {
		s.logger.Printf("Uploaded %s to %s", name, s.share.Name())
	}

	return result
}

func readUpload(u Upload) ([]byte, error) {
	if u.Open == nil {
		return nil, fmt.Errorf("no content")
	}
	rc, err := u.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ObjectName reduces a client-supplied filename to the key it is stored
// under. Directory components are dropped; an empty result means the file is
// skipped. The base name is kept byte for byte.
func ObjectName(filename string) string {
	filename = strings.ReplaceAll(filename, `\`, "/")
	if strings.TrimSpace(filename) == "" {
		return ""
	}
	base := path.Base(filename)
	if strings.TrimSpace(base) == "" {
		return ""
	}
	switch base {
	case ".", "..", "/":
		return ""
	}
	return base
}

// ContentType returns the client-supplied MIME type, sniffing the payload
// when the client sent none or the generic octet-stream type.
func ContentType(clientType string, data []byte) string {
	clientType = strings.TrimSpace(clientType)
	if clientType != "" && clientType != genericContentType {
		return clientType
	}
	return mimetype.Detect(data).String()
}

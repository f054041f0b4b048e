// Package storagetest provides in-memory ObjectStore and FileShare fakes for
// tests of code that writes to both backends.
package storagetest

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"
	"time"

	"photos/services/storage"
)

// Object is a stored object held by ObjectStore.
type Object struct {
	Data        []byte
	ContentType string
}

// ObjectStore is an in-memory storage.ObjectStore. Names in FailPut or
// FailSign make the matching call fail; ListErr fails every listing.
type ObjectStore struct {
	mu      sync.Mutex
	objects map[string]Object

	FailPut  map[string]error
	FailSign map[string]error
	ListErr  error
	Puts     int
}

var _ storage.ObjectStore = (*ObjectStore)(nil)

// NewObjectStore returns an empty store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		objects:  make(map[string]Object),
		FailPut:  make(map[string]error),
		FailSign: make(map[string]error),
	}
}

// Seed stores objects directly, bypassing PutObject.
func (s *ObjectStore) Seed(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		s.objects[name] = Object{Data: []byte(name), ContentType: "image/jpeg"}
	}
}

// Get returns the stored object.
func (s *ObjectStore) Get(name string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[name]
	return obj, ok
}

// Len returns the number of stored objects.
func (s *ObjectStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *ObjectStore) PutObject(_ context.Context, name string, reader io.Reader, _ int64, contentType string) error {
	s.mu.Lock()
	s.Puts++
	failure := s.FailPut[name]
	s.mu.Unlock()
	if failure != nil {
		return failure
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = Object{Data: data, ContentType: contentType}
	return nil
}

func (s *ObjectStore) ListObjects(_ context.Context) ([]storage.ObjectInfo, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	objects := make([]storage.ObjectInfo, 0, len(s.objects))
	for name, obj := range s.objects {
		objects = append(objects, storage.ObjectInfo{
			Name:        name,
			Size:        int64(len(obj.Data)),
			ContentType: obj.ContentType,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

// SignedURL returns https://fake.blob.test/photos/<name>?se=<expiry>&sp=r&sig=fake.
func (s *ObjectStore) SignedURL(_ context.Context, name string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	failure := s.FailSign[name]
	s.mu.Unlock()
	if failure != nil {
		return "", failure
	}

	q := url.Values{}
	q.Set("sp", "r")
	q.Set("se", time.Now().UTC().Add(ttl).Format(time.RFC3339))
	q.Set("sig", "fake-"+name)
	return fmt.Sprintf("https://fake.blob.test/photos/%s?%s", url.PathEscape(name), q.Encode()), nil
}

func (s *ObjectStore) Name() string { return "fake-objects" }

// FileShare is an in-memory storage.FileShare.
type FileShare struct {
	mu    sync.Mutex
	files map[string][]byte

	FailUpload map[string]error
	Uploads    int
}

var _ storage.FileShare = (*FileShare)(nil)

// NewFileShare returns an empty share.
func NewFileShare() *FileShare {
	return &FileShare{
		files:      make(map[string][]byte),
		FailUpload: make(map[string]error),
	}
}

// Get returns the file content.
func (s *FileShare) Get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

// Len returns the number of files.
func (s *FileShare) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func (s *FileShare) UploadFile(_ context.Context, name string, reader io.Reader, _ int64) error {
	s.mu.Lock()
	s.Uploads++
	failure := s.FailUpload[name]
	s.mu.Unlock()
	if failure != nil {
		return failure
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return nil
}

func (s *FileShare) Name() string { return "fake-share" }

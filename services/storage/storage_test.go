package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"photos/config"
)

// --------------------------------------------------------------------------
// LocalShare
// --------------------------------------------------------------------------

func TestLocalShare_UploadFile(t *testing.T) {
	dir := t.TempDir()
	share, err := NewLocalShare(dir)
	if err != nil {
		t.Fatalf("NewLocalShare: %v", err)
	}

	if err := share.UploadFile(context.Background(), "x.png", strings.NewReader("png bytes"), 9); err != nil {
		t.Fatalf("UploadFile: unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "x.png"))
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "png bytes" {
		t.Errorf("file content = %q, want %q", string(data), "png bytes")
	}
}

func TestLocalShare_UploadFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	share, err := NewLocalShare(dir)
	if err != nil {
		t.Fatalf("NewLocalShare: %v", err)
	}
	ctx := context.Background()

	if err := share.UploadFile(ctx, "a.jpg", strings.NewReader("first version"), 13); err != nil {
		t.Fatalf("first UploadFile: %v", err)
	}
	if err := share.UploadFile(ctx, "a.jpg", strings.NewReader("second"), 6); err != nil {
		t.Fatalf("second UploadFile: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.jpg"))
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("file content = %q, want %q", string(data), "second")
	}
}

func TestLocalShare_UploadFile_EscapingName(t *testing.T) {
	share, err := NewLocalShare(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalShare: %v", err)
	}

	err = share.UploadFile(context.Background(), "../outside.jpg", strings.NewReader("data"), 4)
	if err == nil {
		t.Fatal("expected error for name escaping the share root, got nil")
	}
	if !strings.Contains(err.Error(), "escapes share root") {
		t.Errorf("unexpected error: %v", err)
	}
}

type errReader struct{ err error }

func (r *errReader) Read(p []byte) (int, error) { return 0, r.err }

func TestLocalShare_UploadFile_ReaderError(t *testing.T) {
	dir := t.TempDir()
	share, err := NewLocalShare(dir)
	if err != nil {
		t.Fatalf("NewLocalShare: %v", err)
	}

	err = share.UploadFile(context.Background(), "broken.jpg", &errReader{err: errors.New("connection reset")}, 10)
	if err == nil {
		t.Fatal("expected error from broken reader, got nil")
	}
	if !strings.Contains(err.Error(), "failed to write file") {
		t.Errorf("expected write error, got: %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "broken.jpg")); !os.IsNotExist(statErr) {
		t.Error("expected partial file to be removed after write error")
	}
}

type closeErrFile struct {
	*os.File
	err error
}

func (f *closeErrFile) Close() error {
	f.File.Close()
	return f.err
}

func TestLocalShare_UploadFile_CloseError(t *testing.T) {
	dir := t.TempDir()
	share, err := NewLocalShare(dir)
	if err != nil {
		t.Fatalf("NewLocalShare: %v", err)
	}
	share.create = func(name string) (io.WriteCloser, error) {
		f, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		return &closeErrFile{File: f, err: errors.New("disk quota exceeded")}, nil
	}

	err = share.UploadFile(context.Background(), "x.png", strings.NewReader("png bytes"), 9)
	if err == nil {
		t.Fatal("expected error from failed close, got nil")
	}
	if !strings.Contains(err.Error(), "failed to close file") {
		t.Errorf("expected close error, got: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "x.png")); !os.IsNotExist(statErr) {
		t.Error("expected partial file to be removed after close error")
	}
}

func TestNewLocalShare_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "share")
	share, err := NewLocalShare(dir)
	if err != nil {
		t.Fatalf("NewLocalShare: %v", err)
	}
	if _, err := os.Stat(share.Dir()); err != nil {
		t.Errorf("share directory not created: %v", err)
	}
	if !strings.HasPrefix(share.Name(), "local:") {
		t.Errorf("Name() = %q, want local: prefix", share.Name())
	}
}

// --------------------------------------------------------------------------
// AzureBlobStorage.SignedURL (signing is local, no network needed)
// --------------------------------------------------------------------------

func newTestAzureBlob(t *testing.T) *AzureBlobStorage {
	t.Helper()
	key := "dGVzdC1hY2NvdW50LWtleQ=="
	store, err := NewAzureBlobStorage(config.AzureConfig{
		ConnectionString: "DefaultEndpointsProtocol=https;AccountName=acct;AccountKey=" + key + ";EndpointSuffix=core.windows.net",
		AccountName:      "acct",
		AccountKey:       key,
	}, "photos", nil)
	if err != nil {
		t.Fatalf("NewAzureBlobStorage: %v", err)
	}
	return store
}

func TestAzureBlob_SignedURL(t *testing.T) {
	store := newTestAzureBlob(t)

	before := time.Now().UTC()
	raw, err := store.SignedURL(context.Background(), "p1.jpg", time.Hour)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing signed URL: %v", err)
	}
	if u.Scheme != "https" || u.Host != "acct.blob.core.windows.net" {
		t.Errorf("host = %s://%s, want https://acct.blob.core.windows.net", u.Scheme, u.Host)
	}
	if u.Path != "/photos/p1.jpg" {
		t.Errorf("path = %q, want /photos/p1.jpg", u.Path)
	}

	q := u.Query()
	if q.Get("sp") != "r" {
		t.Errorf("sp = %q, want read-only permission r", q.Get("sp"))
	}
	if q.Get("spr") != "https" {
		t.Errorf("spr = %q, want https", q.Get("spr"))
	}
	if q.Get("sig") == "" {
		t.Error("signature missing from query")
	}

	expiry, err := time.Parse(time.RFC3339, q.Get("se"))
	if err != nil {
		t.Fatalf("parsing se=%q: %v", q.Get("se"), err)
	}
	lower := before.Add(time.Hour).Add(-time.Second)
	upper := time.Now().UTC().Add(time.Hour).Add(time.Second)
	if expiry.Before(lower) || expiry.After(upper) {
		t.Errorf("expiry %v not within one hour of signing (%v..%v)", expiry, lower, upper)
	}
}

func TestAzureBlob_SignedURL_DistinctPerObject(t *testing.T) {
	store := newTestAzureBlob(t)
	ctx := context.Background()

	a, err := store.SignedURL(ctx, "p1.jpg", time.Hour)
	if err != nil {
		t.Fatalf("SignedURL p1: %v", err)
	}
	b, err := store.SignedURL(ctx, "p2.png", time.Hour)
	if err != nil {
		t.Fatalf("SignedURL p2: %v", err)
	}
	if a == b {
		t.Error("signed URLs for different objects should differ")
	}
	if !strings.Contains(b, "/photos/p2.png?") {
		t.Errorf("URL %q does not reference p2.png", b)
	}
}

func TestNewAzureBlobStorage_InvalidKey(t *testing.T) {
	_, err := NewAzureBlobStorage(config.AzureConfig{
		ConnectionString: "DefaultEndpointsProtocol=https;AccountName=acct;AccountKey=dGVzdA==;EndpointSuffix=core.windows.net",
		AccountName:      "acct",
		AccountKey:       "not base64!",
	}, "photos", nil)
	if err == nil {
		t.Fatal("expected error for non-base64 account key, got nil")
	}
}

// --------------------------------------------------------------------------
// MinioStorage.SignedURL (region is fixed so presigning needs no network)
// --------------------------------------------------------------------------

func TestMinio_SignedURL(t *testing.T) {
	client, err := newMinioClient(config.MinioConfig{
		Endpoint:        "localhost:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Region:          "us-east-1",
	})
	if err != nil {
		t.Fatalf("newMinioClient: %v", err)
	}
	store := newMinioStorage(client, "photos", nil)

	raw, err := store.SignedURL(context.Background(), "x.png", time.Hour)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing signed URL: %v", err)
	}
	if u.Path != "/photos/x.png" {
		t.Errorf("path = %q, want /photos/x.png", u.Path)
	}
	if got := u.Query().Get("X-Amz-Expires"); got != "3600" {
		t.Errorf("X-Amz-Expires = %q, want 3600", got)
	}
	if u.Query().Get("X-Amz-Signature") == "" {
		t.Error("signature missing from query")
	}
	if store.Name() != "minio:photos" {
		t.Errorf("Name() = %q, want minio:photos", store.Name())
	}
}

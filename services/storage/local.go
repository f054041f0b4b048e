package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalShare writes mirror copies to a directory on the local filesystem.
// Suitable for development in place of an Azure Files share.
type LocalShare struct {
	baseDir string
	create  func(name string) (io.WriteCloser, error)
}

func createFile(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// NewLocalShare creates a LocalShare rooted at baseDir. The directory is
// created if it does not already exist.
func NewLocalShare(baseDir string) (*LocalShare, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("local share: failed to create base directory %q: %w", baseDir, err)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("local share: failed to resolve absolute path for %q: %w", baseDir, err)
	}
	return &LocalShare{baseDir: abs, create: createFile}, nil
}

// UploadFile writes content to baseDir/name, replacing an existing file. A
// failed write removes the partial file.
func (s *LocalShare) UploadFile(_ context.Context, name string, reader io.Reader, _ int64) error {
	dest := filepath.Join(s.baseDir, filepath.FromSlash(name))
	if !strings.HasPrefix(dest, s.baseDir+string(filepath.Separator)) {
		return fmt.Errorf("local share: name %q escapes share root", name)
	}

	f, err := s.create(dest)
	if err != nil {
		return fmt.Errorf("local share: failed to create file %q: %w", dest, err)
	}

	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("local share: failed to write file %q: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("local share: failed to close file %q: %w", dest, err)
	}
	return nil
}

// Dir returns the absolute share root.
func (s *LocalShare) Dir() string {
	return s.baseDir
}

// Name returns a label for the backend
func (s *LocalShare) Name() string {
	return "local:" + s.baseDir
}

package models

import "time"

// Photo is one listed object with a signed URL the browser can load directly
type Photo struct {
	Name      string
	URL       string
	ExpiresAt time.Time
	Size      int64
}

// FileResult is the outcome of uploading a single file to both backends
type FileResult struct {
	Name        string
	Size        int64
	ContentType string

	// Skipped is set for form entries without a usable filename; no
	// backend was contacted.
	Skipped bool

	// ObjectErr and ShareErr hold the failure, if any, of each backend
	// write. The two writes are independent.
	ObjectErr error
	ShareErr  error
}

// OK reports whether the file reached both backends
func (r FileResult) OK() bool {
	return !r.Skipped && r.ObjectErr == nil && r.ShareErr == nil
}

// UploadSummary collects the per-file results of one upload request
type UploadSummary struct {
	Results []FileResult
}

// Stored counts files written to both backends
func (s UploadSummary) Stored() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed counts files where at least one backend write failed
func (s UploadSummary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if !r.Skipped && !r.OK() {
			n++
		}
	}
	return n
}

// Skipped counts form entries that were ignored
func (s UploadSummary) Skipped() int {
	n := 0
	for _, r := range s.Results {
		if r.Skipped {
			n++
		}
	}
	return n
}

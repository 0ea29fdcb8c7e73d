package storage

import (
	"io"
	"time"
)

// Provider defines the behavior for any output storage backend. Keys
// are flat file names; the backend decides where they actually live.
type Provider interface {
	List(prefix string) ([]string, error)
	Get(key string) (*FileObject, error)
	Put(key string, body io.ReadSeeker, contentType string) error
	Delete(key string) error
	Exists(key string) (bool, error)

	// Location renders a human-readable address for a key, e.g. a
	// filesystem path or an s3:// URL.
	Location(key string) string
}

// FileObject is the provider-agnostic representation of a stored file.
type FileObject struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
	LastModified  time.Time
}

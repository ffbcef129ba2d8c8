package filestorage

import (
	"context"
	"mime/multipart"
	"time"
)

// StoredFile describes an object written to storage
type StoredFile struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save stores the uploaded file under prefix and returns its key
	Save(ctx context.Context, fileHeader *multipart.FileHeader, prefix string) (*StoredFile, error)

	// Delete removes an object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	// PresignGet returns a time-limited URL from which the object can be downloaded
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)

	// URL returns the stable public URL for key
	URL(key string) string
}

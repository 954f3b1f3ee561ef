package catalog

import (
	"context"
	"time"
)

// ImageStorage abstracts the object store that holds product images.
// Implementations generate presigned URLs so clients upload and download
// directly against the store without proxying bytes through the API.
type ImageStorage interface {
	// GenerateUploadURL returns a presigned PUT URL for the given key
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned GET URL for the given key
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	// DeleteObject removes the object with the given key
	DeleteObject(ctx context.Context, storageKey string) error
	// ObjectExists reports whether an object with the given key exists
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

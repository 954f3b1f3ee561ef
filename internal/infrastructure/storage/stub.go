// Package storage provides object storage implementations for product images.
package storage

import (
	"context"
	"errors"
	"time"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// StubImageStorage is a placeholder implementation of ImageStorage.
// Use this for development when no S3-compatible backend is configured.
type StubImageStorage struct {
	// BaseURL is the base URL for generating upload/download URLs
	// Defaults to "https://storage.example.com" if not set
	BaseURL string
}

// NewStubImageStorage creates a new StubImageStorage
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{
		BaseURL: "https://storage.example.com",
	}
}

// Ensure StubImageStorage implements ImageStorage
var _ catalogapp.ImageStorage = (*StubImageStorage)(nil)

// GenerateUploadURL generates a stub presigned URL for uploading a file
func (s *StubImageStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/upload/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// GenerateDownloadURL generates a stub presigned URL for downloading a file
func (s *StubImageStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// DeleteObject is a no-op stub that always succeeds
func (s *StubImageStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists always returns true in stub mode.
// This allows the image confirmation flow to work during development.
func (s *StubImageStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStubImageStorage(t *testing.T) {
	s := NewStubImageStorage()
	require.NotNil(t, s)
	assert.Equal(t, "https://storage.example.com", s.BaseURL)
}

func TestStubImageStorage_GenerateUploadURL(t *testing.T) {
	s := NewStubImageStorage()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		url, expiresAt, err := s.GenerateUploadURL(ctx, "products/abc/main.jpg", "image/jpeg", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "https://storage.example.com/upload/products/abc/main.jpg")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("empty storage key", func(t *testing.T) {
		_, _, err := s.GenerateUploadURL(ctx, "", "image/jpeg", 15*time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestStubImageStorage_GenerateDownloadURL(t *testing.T) {
	s := NewStubImageStorage()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		url, expiresAt, err := s.GenerateDownloadURL(ctx, "products/abc/main.jpg", time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, "https://storage.example.com/download/products/abc/main.jpg")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("empty storage key", func(t *testing.T) {
		_, _, err := s.GenerateDownloadURL(ctx, "", time.Hour)
		require.Error(t, err)
	})
}

func TestStubImageStorage_DeleteAndExists(t *testing.T) {
	s := NewStubImageStorage()
	ctx := context.Background()

	require.NoError(t, s.DeleteObject(ctx, "products/abc/main.jpg"))
	require.Error(t, s.DeleteObject(ctx, ""))

	exists, err := s.ObjectExists(ctx, "products/abc/main.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.ObjectExists(ctx, "")
	require.Error(t, err)
}

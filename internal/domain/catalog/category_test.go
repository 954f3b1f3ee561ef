package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory_Success(t *testing.T) {
	category, err := NewCategory("Home-Office", "Home Office")

	require.NoError(t, err)
	assert.Equal(t, "home-office", category.Slug)
	assert.Equal(t, "Home Office", category.Name)
	assert.Equal(t, CategoryStatusActive, category.Status)
	assert.Equal(t, 0, category.SortOrder)
	assert.NotEqual(t, uuid.Nil, category.ID)
	assert.Len(t, category.GetDomainEvents(), 1)
}

func TestNewCategory_InvalidSlug(t *testing.T) {
	tests := []struct {
		name string
		slug string
	}{
		{"empty", ""},
		{"spaces", "home office"},
		{"underscore", "home_office"},
		{"too long", string(make([]byte, 101))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCategory(tt.slug, "Home Office")
			assert.Error(t, err)
		})
	}
}

func TestNewCategory_InvalidName(t *testing.T) {
	_, err := NewCategory("home-office", "")

	assert.Error(t, err)
}

func TestCategory_Update(t *testing.T) {
	category, err := NewCategory("books", "Books")
	require.NoError(t, err)

	err = category.Update("Books & Media", "Printed and digital media")

	require.NoError(t, err)
	assert.Equal(t, "Books & Media", category.Name)
	assert.Equal(t, "Printed and digital media", category.Description)
	assert.Equal(t, "books", category.Slug)
}

func TestCategory_ActivateAndDeactivate(t *testing.T) {
	category, err := NewCategory("books", "Books")
	require.NoError(t, err)

	err = category.Activate()
	assert.Error(t, err)

	require.NoError(t, category.Deactivate())
	assert.False(t, category.IsActive())

	err = category.Deactivate()
	assert.Error(t, err)

	require.NoError(t, category.Activate())
	assert.True(t, category.IsActive())
}

func TestCategory_SetSortOrder(t *testing.T) {
	category, err := NewCategory("books", "Books")
	require.NoError(t, err)

	category.SetSortOrder(5)

	assert.Equal(t, 5, category.SortOrder)
}

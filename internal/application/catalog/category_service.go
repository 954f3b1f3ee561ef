package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService manages the category tree
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// ListActiveCategories returns active categories in display order
func (s *CategoryService) ListActiveCategories(ctx context.Context) ([]CategoryInfo, error) {
	categories, err := s.categoryRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list categories")
	}

	return toCategoryInfos(categories), nil
}

// ListAllCategories returns every category regardless of status (admin)
func (s *CategoryService) ListAllCategories(ctx context.Context) ([]CategoryInfo, error) {
	categories, err := s.categoryRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list categories")
	}

	return toCategoryInfos(categories), nil
}

// GetCategoryBySlug returns one category by its slug
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*CategoryInfo, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}

	info := NewCategoryInfo(category)
	return &info, nil
}

// CreateCategory adds a new category (admin)
func (s *CategoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryInfo, error) {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, input.Slug)
	if err != nil {
		s.logger.Error("Failed to check slug uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create category")
	}
	if exists {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A category with this slug already exists")
	}

	category, err := catalog.NewCategory(input.Slug, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Description != "" {
		if err := category.Update(input.Name, input.Description); err != nil {
			return nil, err
		}
	}
	category.SetSortOrder(input.SortOrder)

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to save category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create category")
	}

	s.logger.Info("Category created",
		zap.String("slug", category.Slug),
		zap.String("category_id", category.ID.String()))

	info := NewCategoryInfo(category)
	return &info, nil
}

// UpdateCategory updates a category's details (admin)
func (s *CategoryService) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*CategoryInfo, error) {
	category, err := s.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}

	if err := category.Update(input.Name, input.Description); err != nil {
		return nil, err
	}
	category.SetSortOrder(input.SortOrder)

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to update category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update category")
	}

	info := NewCategoryInfo(category)
	return &info, nil
}

// ActivateCategory makes a category visible to shoppers (admin)
func (s *CategoryService) ActivateCategory(ctx context.Context, categoryID uuid.UUID) error {
	return s.setCategoryStatus(ctx, categoryID, true)
}

// DeactivateCategory hides a category from shoppers (admin)
func (s *CategoryService) DeactivateCategory(ctx context.Context, categoryID uuid.UUID) error {
	return s.setCategoryStatus(ctx, categoryID, false)
}

func (s *CategoryService) setCategoryStatus(ctx context.Context, categoryID uuid.UUID, active bool) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}

	if active {
		err = category.Activate()
	} else {
		err = category.Deactivate()
	}
	if err != nil {
		return err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to save category status", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update category")
	}
	return nil
}

// DeleteCategory removes an empty category (admin).
// Categories that still contain products cannot be deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}

	hasProducts, err := s.categoryRepo.HasProducts(ctx, categoryID)
	if err != nil {
		s.logger.Error("Failed to check category products", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete category")
	}
	if hasProducts {
		return shared.NewDomainError("CATEGORY_NOT_EMPTY", "Category still contains products")
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		s.logger.Error("Failed to delete category", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete category")
	}

	s.logger.Info("Category deleted", zap.String("category_id", categoryID.String()))
	return nil
}

func toCategoryInfos(categories []catalog.Category) []CategoryInfo {
	infos := make([]CategoryInfo, 0, len(categories))
	for i := range categories {
		infos = append(infos, NewCategoryInfo(&categories[i]))
	}
	return infos
}

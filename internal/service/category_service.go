package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCategoryNameRequired = errors.New("category name is required")
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// List retrieves all categories
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Create adds a new category. Names are trimmed and must be non-empty.
func (s *categoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// Update renames an existing category
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	existing, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	existing.Name = name
	if err := s.categoryRepo.Update(ctx, existing); err != nil {
		if err == repository.ErrCategoryNotFound || err == repository.ErrCategoryAlreadyExists {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return existing, nil
}

// Delete removes a category. Categories still referenced by products
// cannot be removed; the repository reports ErrCategoryInUse.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrCategoryNotFound || err == repository.ErrCategoryInUse {
			return err
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

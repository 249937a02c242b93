package services

import (
	"database/sql"
	"errors"
	"fmt"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category name already exists")
	ErrCategoryInUse    = errors.New("category is referenced by existing products")
)

// CategoryService manages classification labels. Deletion is guarded in
// application logic: a category still referenced by products is rejected and
// the caller must reassign those products first.
type CategoryService interface {
	GetCategories() ([]models.Category, error)
	CreateCategory(name string) (*models.Category, error)
	UpdateCategory(categoryID int64, name string) error
	DeleteCategory(categoryID int64) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	db           *sql.DB
}

// NewCategoryService creates a new instance of CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository, db *sql.DB) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, db: db}
}

func (s *categoryService) GetCategories() ([]models.Category, error) {
	categories, err := s.categoryRepo.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) CreateCategory(name string) (*models.Category, error) {
	categoryID, err := s.categoryRepo.CreateCategory(s.db, name)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &models.Category{ID: categoryID, Name: name}, nil
}

func (s *categoryService) UpdateCategory(categoryID int64, name string) error {
	err := s.categoryRepo.UpdateCategory(s.db, categoryID, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return ErrCategoryExists
		}
		return fmt.Errorf("failed to update category %d: %w", categoryID, err)
	}
	return nil
}

// DeleteCategory checks the reference count and the delete in one
// transaction so a product created concurrently cannot slip between the
// guard and the delete.
func (s *categoryService) DeleteCategory(categoryID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	count, err := s.categoryRepo.CountProducts(tx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count products in category %d: %w", categoryID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d products", ErrCategoryInUse, count)
	}

	if err := s.categoryRepo.DeleteCategory(tx, categoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category %d: %w", categoryID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category deletion: %w", err)
	}
	return nil
}

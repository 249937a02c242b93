package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"inventory_backend/internal/models"

	"github.com/lib/pq"
)

// CategoryRepository defines the interface for category-related database operations.
type CategoryRepository interface {
	GetCategories() ([]models.Category, error)
	CreateCategory(executor SQLExecutor, name string) (int64, error)
	UpdateCategory(executor SQLExecutor, categoryID int64, name string) error
	DeleteCategory(executor SQLExecutor, categoryID int64) error
	CountProducts(executor SQLExecutor, categoryID int64) (int, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetCategories() ([]models.Category, error) {
	rows, err := r.db.Query("SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("%w: getting categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("%w: scanning category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getting categories: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *categoryRepository) CreateCategory(executor SQLExecutor, name string) (int64, error) {
	var categoryID int64
	err := executor.QueryRow("INSERT INTO categories (name) VALUES ($1) RETURNING id", name).Scan(&categoryID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateKey, pqErr.Message)
		}
		return 0, fmt.Errorf("%w: creating category: %v", ErrDatabaseError, err)
	}
	return categoryID, nil
}

func (r *categoryRepository) UpdateCategory(executor SQLExecutor, categoryID int64, name string) error {
	result, err := executor.Exec("UPDATE categories SET name = $1 WHERE id = $2", name, categoryID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, pqErr.Message)
		}
		return fmt.Errorf("%w: updating category %d: %v", ErrDatabaseError, categoryID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updating category %d: %v", ErrDatabaseError, categoryID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) DeleteCategory(executor SQLExecutor, categoryID int64) error {
	result, err := executor.Exec("DELETE FROM categories WHERE id = $1", categoryID)
	if err != nil {
		return fmt.Errorf("%w: deleting category %d: %v", ErrDatabaseError, categoryID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting category %d: %v", ErrDatabaseError, categoryID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountProducts returns how many products reference the category. The service
// layer uses this as the referential-integrity guard before deletion.
func (r *categoryRepository) CountProducts(executor SQLExecutor, categoryID int64) (int, error) {
	var count int
	err := executor.QueryRow("SELECT COUNT(*) FROM products WHERE category_id = $1", categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting products in category %d: %v", ErrDatabaseError, categoryID, err)
	}
	return count, nil
}
